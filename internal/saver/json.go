package saver

import (
	"encoding/json"
	"os"

	"vitas-chart/internal/model"
)

// JSONSaver lưu series dưới dạng JSON (array, indent).
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) Save(bars []model.AggBar, path string) error {
	if bars == nil {
		bars = []model.AggBar{}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bars); err != nil {
		return err
	}
	return f.Close()
}
