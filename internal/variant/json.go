package variant

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/guregu/null.v3"
)

// document is the stored form of a variant, as exported from MongoDB.
type document struct {
	ID          *objectID   `json:"_id,omitempty"`
	Name        string      `json:"name"`
	RsID        stringList  `json:"rs_id,omitempty"`
	ChipName    stringList  `json:"chip_name,omitempty"`
	IlluminaTop string      `json:"illumina_top,omitempty"`
	AffySNPID   null.String `json:"affy_snp_id"`
	Locations   []Location  `json:"locations"`
}

type objectID struct {
	OID string `json:"$oid"`
}

// stringList accepts either a JSON string or an array of strings. Older
// exports store a single rs_id as a plain string.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		if one != "" {
			*s = stringList{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// mongoInt is an integer written either as a plain JSON number (relaxed
// export) or as {"$numberLong": "..."} / {"$numberInt": "..."} (canonical
// export).
type mongoInt int64

func (n *mongoInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Long *string `json:"$numberLong"`
			Int  *string `json:"$numberInt"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return err
		}
		text := wrapped.Long
		if text == nil {
			text = wrapped.Int
		}
		if text == nil {
			return fmt.Errorf("unsupported integer document %s", data)
		}
		v, err := strconv.ParseInt(*text, 10, 64)
		if err != nil {
			return err
		}
		*n = mongoInt(v)
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = mongoInt(v)
	return nil
}

// UnmarshalJSON decodes a location in either mongoexport mode.
func (l *Location) UnmarshalJSON(data []byte) error {
	type plain Location
	aux := struct {
		*plain
		Position mongoInt `json:"position"`
	}{plain: (*plain)(l)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	l.Position = int64(aux.Position)
	return nil
}

// MarshalJSON encodes v in the stored document form.
func (v *Variant) MarshalJSON() ([]byte, error) {
	doc := document{
		Name:        v.Name,
		RsID:        v.RsID,
		ChipName:    v.ChipName,
		IlluminaTop: v.IlluminaTop,
		AffySNPID:   v.AffySNPID,
		Locations:   v.Locations(),
	}
	if v.ID != "" {
		doc.ID = &objectID{OID: v.ID}
	}
	return json.Marshal(doc)
}

func fromDocument(species Species, doc document) (*Variant, error) {
	v := &Variant{
		Species:     species,
		Name:        doc.Name,
		RsID:        doc.RsID,
		ChipName:    doc.ChipName,
		IlluminaTop: doc.IlluminaTop,
		AffySNPID:   doc.AffySNPID,
	}
	if doc.ID != nil {
		v.ID = doc.ID.OID
	}
	for _, loc := range doc.Locations {
		if err := v.AddLocation(loc); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// DecodeVariants reads variant documents from r. Both a JSON array and a
// stream of concatenated documents (one per line, as written by
// mongoexport) are accepted.
func DecodeVariants(r io.Reader, species Species) ([]*Variant, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read variants: %w", err)
	}

	dec := json.NewDecoder(br)
	var docs []document
	if first == '[' {
		if err := dec.Decode(&docs); err != nil {
			return nil, fmt.Errorf("decode variants: %w", err)
		}
	} else {
		for {
			var doc document
			err := dec.Decode(&doc)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("decode variant %d: %w", len(docs)+1, err)
			}
			docs = append(docs, doc)
		}
	}

	variants := make([]*Variant, 0, len(docs))
	for _, doc := range docs {
		v, err := fromDocument(species, doc)
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", doc.Name, err)
		}
		variants = append(variants, v)
	}
	return variants, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}
