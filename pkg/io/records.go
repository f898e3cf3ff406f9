package io

type modelFile struct {
	Name           string       `json:"name" toml:"name" yaml:"name"`
	Pricers        int          `json:"pricers,omitempty" toml:"pricers,omitempty" yaml:"pricers,omitempty"`
	Reoptimization bool         `json:"reoptimization,omitempty" toml:"reoptimization,omitempty" yaml:"reoptimization,omitempty"`
	Vars           []varRecord  `json:"vars" toml:"vars" yaml:"vars"`
	Constraints    []consRecord `json:"constraints" toml:"constraints" yaml:"constraints"`
}

type varRecord struct {
	Name  string      `json:"name" toml:"name" yaml:"name"`
	Type  string      `json:"type,omitempty" toml:"type,omitempty" yaml:"type,omitempty"`
	Lower *float64    `json:"lower,omitempty" toml:"lower,omitempty" yaml:"lower,omitempty"`
	Upper *float64    `json:"upper,omitempty" toml:"upper,omitempty" yaml:"upper,omitempty"`
	Obj   float64     `json:"obj,omitempty" toml:"obj,omitempty" yaml:"obj,omitempty"`
	Aggr  *aggrRecord `json:"aggr,omitempty" toml:"aggr,omitempty" yaml:"aggr,omitempty"`
}

type aggrRecord struct {
	Of       string  `json:"of" toml:"of" yaml:"of"`
	Scalar   float64 `json:"scalar" toml:"scalar" yaml:"scalar"`
	Constant float64 `json:"constant,omitempty" toml:"constant,omitempty" yaml:"constant,omitempty"`
}

type consRecord struct {
	Kind     string `json:"kind" toml:"kind" yaml:"kind"`
	Name     string `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Disabled bool   `json:"disabled,omitempty" toml:"disabled,omitempty" yaml:"disabled,omitempty"`

	Vars  []string  `json:"vars,omitempty" toml:"vars,omitempty" yaml:"vars,omitempty"`
	Coefs []float64 `json:"coefs,omitempty" toml:"coefs,omitempty" yaml:"coefs,omitempty"`
	Lhs   *float64  `json:"lhs,omitempty" toml:"lhs,omitempty" yaml:"lhs,omitempty"`
	Rhs   *float64  `json:"rhs,omitempty" toml:"rhs,omitempty" yaml:"rhs,omitempty"`

	Set       string    `json:"set,omitempty" toml:"set,omitempty" yaml:"set,omitempty"`
	Link      string    `json:"link,omitempty" toml:"link,omitempty" yaml:"link,omitempty"`
	Vals      []float64 `json:"vals,omitempty" toml:"vals,omitempty" yaml:"vals,omitempty"`
	Weights   []int64   `json:"weights,omitempty" toml:"weights,omitempty" yaml:"weights,omitempty"`
	Capacity  int64     `json:"capacity,omitempty" toml:"capacity,omitempty" yaml:"capacity,omitempty"`
	X         string    `json:"x,omitempty" toml:"x,omitempty" yaml:"x,omitempty"`
	Y         string    `json:"y,omitempty" toml:"y,omitempty" yaml:"y,omitempty"`
	Coef      float64   `json:"coef,omitempty" toml:"coef,omitempty" yaml:"coef,omitempty"`
	Parity    bool      `json:"parity,omitempty" toml:"parity,omitempty" yaml:"parity,omitempty"`
	IntVar    string    `json:"intvar,omitempty" toml:"intvar,omitempty" yaml:"intvar,omitempty"`
	Resultant string    `json:"resultant,omitempty" toml:"resultant,omitempty" yaml:"resultant,omitempty"`
	Handler   string    `json:"handler,omitempty" toml:"handler,omitempty" yaml:"handler,omitempty"`

	Literals []literalRecord `json:"literals,omitempty" toml:"literals,omitempty" yaml:"literals,omitempty"`
}

type literalRecord struct {
	Var   string  `json:"var" toml:"var" yaml:"var"`
	Sense string  `json:"sense" toml:"sense" yaml:"sense"`
	Bound float64 `json:"bound" toml:"bound" yaml:"bound"`
}
