// Package persist encodes simulation saves and stores them under string keys.
package persist

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Version is written into every new save. Loaders accept MinVersion..Version.
const (
	Version    = 4
	MinVersion = 3
)

// ErrUnsupportedVersion is returned for saves outside the accepted version range.
var ErrUnsupportedVersion = errors.New("persist: unsupported save version")

//go:embed schema.json
var schemaJSON string

var saveSchema = jsonschema.MustCompileString("ecosim-save.schema.json", schemaJSON)

// Document is the versioned save format.
type Document struct {
	Version   int              `json:"version"`
	Tick      int64            `json:"tick"`
	Creatures []CreatureRecord `json:"creatures"`
	World     WorldRecord      `json:"world"`
	Settings  Settings         `json:"settings"`
}

// Genes is a genome as stored. Diet is a number so older saves holding
// non-integral values still load; it is rounded on restore.
type Genes struct {
	Speed      float64 `json:"speed"`
	Perception float64 `json:"perception"`
	Size       float64 `json:"size"`
	Diet       float64 `json:"diet"`
	Efficiency float64 `json:"efficiency"`
}

// CreatureRecord holds one living creature. Velocity and angle were added in
// version 4 and are nil when absent.
type CreatureRecord struct {
	X                    float64  `json:"x"`
	Y                    float64  `json:"y"`
	Genes                Genes    `json:"genes"`
	Generation           int      `json:"generation"`
	Hue                  float64  `json:"hue"`
	Energy               float64  `json:"energy"`
	Age                  int      `json:"age"`
	ReproductionCooldown int      `json:"reproductionCooldown"`
	VX                   *float64 `json:"vx,omitempty"`
	VY                   *float64 `json:"vy,omitempty"`
	Angle                *float64 `json:"angle,omitempty"`
}

// FoodRecord holds one food item. A nil Decay means the item never decays.
type FoodRecord struct {
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	IsMeat bool     `json:"isMeat"`
	Energy float64  `json:"energy"`
	Age    float64  `json:"age"`
	Decay  *float64 `json:"decay"`
}

// WorldRecord holds the food population.
type WorldRecord struct {
	Food []FoodRecord `json:"food"`
}

// Settings holds operator settings.
type Settings struct {
	Speed float64 `json:"speed"`
}

// Encode marshals a document, stamping the current version.
func Encode(doc *Document) ([]byte, error) {
	doc.Version = Version
	if doc.Creatures == nil {
		doc.Creatures = []CreatureRecord{}
	}
	if doc.World.Food == nil {
		doc.World.Food = []FoodRecord{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal save: %w", err)
	}
	return data, nil
}

// Decode parses and validates a save. The version is checked before the
// schema so unknown versions report ErrUnsupportedVersion.
func Decode(data []byte) (*Document, error) {
	var header struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("parse save: %w", err)
	}
	if header.Version == nil {
		return nil, fmt.Errorf("%w: missing version", ErrUnsupportedVersion)
	}
	if v := *header.Version; v < MinVersion || v > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse save: %w", err)
	}
	if err := saveSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("validate save: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	return &doc, nil
}
