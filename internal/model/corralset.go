package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CorralSet is a JSON object of corral id to CorralIn that remembers the
// order keys appeared in. A repeated key keeps its first position and takes
// the last value.
type CorralSet struct {
	IDs  []string
	ByID map[string]CorralIn
}

func (s CorralSet) Len() int { return len(s.IDs) }

func (s *CorralSet) Add(id string, c CorralIn) {
	if s.ByID == nil {
		s.ByID = map[string]CorralIn{}
	}
	if _, ok := s.ByID[id]; !ok {
		s.IDs = append(s.IDs, id)
	}
	s.ByID[id] = c
}

func (s *CorralSet) UnmarshalJSON(b []byte) error {
	*s = CorralSet{}
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("corrals: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id := tok.(string)
		var c CorralIn
		if err := dec.Decode(&c); err != nil {
			return fmt.Errorf("corrals[%q]: %w", id, err)
		}
		s.Add(id, c)
	}
	_, err = dec.Token()
	return err
}

func (s CorralSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range s.IDs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.ByID[id])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
