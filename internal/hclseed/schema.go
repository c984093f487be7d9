package hclseed

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level block a seed file may contain.
type fileRoot struct {
	Nodes     []*nodeBlock     `hcl:"node,block"`
	Opposites []*oppositeBlock `hcl:"opposite,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

// nodeBlock is the HCL shape of a single node.
type nodeBlock struct {
	Type     string         `hcl:"type,label"`
	ID       string         `hcl:"id,label"`
	Caption  string         `hcl:"caption,optional"`
	Category string         `hcl:"category,optional"`
	Deps     []string       `hcl:"deps,optional"`
	Tags     []string       `hcl:"tags,optional"`
	Self     hcl.Expression `hcl:"self,optional"`
	Override hcl.Expression `hcl:"override,optional"`
	DefRange hcl.Range      `hcl:",def_range"`
}

// oppositeBlock declares two properties that cannot be applied together.
type oppositeBlock struct {
	A        string    `hcl:"a,label"`
	B        string    `hcl:"b,label"`
	DefRange hcl.Range `hcl:",def_range"`
}
