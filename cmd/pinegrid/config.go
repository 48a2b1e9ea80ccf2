// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/katalvlaran/pinegrid/subgrid"
	"gopkg.in/yaml.v3"
)

// paramsFile is the YAML form of subgrid.Params. Missing keys keep the
// base value.
//
//	q2: {bins: 30, order: 3, min: 100, max: 1e6}
//	x1: {bins: 50, order: 3, min: 2e-7, max: 1}
//	x2: {bins: 50, order: 3, min: 2e-7, max: 1}
//	reweight: true
type paramsFile struct {
	Q2       *axisFile `yaml:"q2"`
	X1       *axisFile `yaml:"x1"`
	X2       *axisFile `yaml:"x2"`
	Reweight *bool     `yaml:"reweight"`
}

type axisFile struct {
	Bins  *int     `yaml:"bins"`
	Order *int     `yaml:"order"`
	Min   *float64 `yaml:"min"`
	Max   *float64 `yaml:"max"`
}

func (f *axisFile) apply(a *subgrid.AxisParams) {
	if f == nil {
		return
	}
	if f.Bins != nil {
		a.Bins = *f.Bins
	}
	if f.Order != nil {
		a.Order = *f.Order
	}
	if f.Min != nil {
		a.Min = *f.Min
	}
	if f.Max != nil {
		a.Max = *f.Max
	}
}

// parseParams overlays YAML onto base and validates the result.
func parseParams(data []byte, base subgrid.Params) (subgrid.Params, error) {
	var f paramsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return subgrid.Params{}, fmt.Errorf("failed to parse params: %w", err)
	}
	p := base
	f.Q2.apply(&p.Q2)
	f.X1.apply(&p.X1)
	f.X2.apply(&p.X2)
	if f.Reweight != nil {
		p.Reweight = *f.Reweight
	}
	if err := p.Validate(); err != nil {
		return subgrid.Params{}, err
	}

	return p, nil
}

// loadParams reads a YAML params file; an empty path returns base.
func loadParams(path string, base subgrid.Params) (subgrid.Params, error) {
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return subgrid.Params{}, fmt.Errorf("failed to read params: %w", err)
	}

	return parseParams(data, base)
}
