package ast

type nameCollector struct {
	names map[string]bool
	bound map[string]bool
}

func (c *nameCollector) Visit(node Node) Visitor {
	switch n := node.(type) {
	case *VarExpr:
		if !c.bound[n.Name] {
			c.names[n.Name] = true
		}
	case *CompExpr:
		// The loop variables shadow any outer names inside the
		// comprehension. This is only advisory analysis, so nesting the
		// same name is handled coarsely.
		for _, v := range n.Vars {
			c.bound[v] = true
		}
	}
	return c
}

// UsedNames returns the set of free names a program can possibly read,
// determined by a static walk for name references. Comprehension loop
// variables are excluded.
func UsedNames(prog *Program) map[string]bool {
	c := &nameCollector{names: make(map[string]bool), bound: make(map[string]bool)}
	WalkProgram(c, prog)
	for name := range c.bound {
		delete(c.names, name)
	}
	return c.names
}
