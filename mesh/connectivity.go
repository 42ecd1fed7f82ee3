package mesh

// Connectivity is the immutable element-to-global-DOF table. It is built once at
// optimizer construction and shared read-only across iterations.
type Connectivity struct {
	grid Grid
	dofs [][]int // [element][localDOF] -> global DOF
}

// NewConnectivity builds the element→DOF table for the grid.
func NewConnectivity(g Grid) *Connectivity {
	c := &Connectivity{
		grid: g,
		dofs: make([][]int, g.NumElements()),
	}
	if g.Is3D() {
		c.build3D()
	} else {
		c.build2D()
	}
	return c
}

// ElementDOFs returns the global DOF indices of element e. The returned slice
// aliases the table and must not be modified.
func (c *Connectivity) ElementDOFs(e int) []int { return c.dofs[e] }

// Grid returns the grid the table was built for.
func (c *Connectivity) Grid() Grid { return c.grid }

// build2D numbers the quad4 corner DOFs counter-clockwise from the lower-left
// node: (n1, n2, n2+1, n1+1) with two DOFs each.
func (c *Connectivity) build2D() {
	nely := c.grid.Nely
	for elx := 0; elx < c.grid.Nelx; elx++ {
		for ely := 0; ely < nely; ely++ {
			el := elx*nely + ely
			n1 := (nely+1)*elx + ely
			n2 := (nely+1)*(elx+1) + ely
			c.dofs[el] = []int{
				2 * n1, 2*n1 + 1,
				2 * n2, 2*n2 + 1,
				2*n2 + 2, 2*n2 + 3,
				2*n1 + 2, 2*n1 + 3,
			}
		}
	}
}

func (c *Connectivity) build3D() {
	nelx, nely := c.grid.Nelx, c.grid.Nely
	layer := (nelx + 1) * (nely + 1) // nodes per z-layer
	for elz := 0; elz < c.grid.Nelz; elz++ {
		for elx := 0; elx < nelx; elx++ {
			for ely := 0; ely < nely; ely++ {
				el := elz*nelx*nely + elx*nely + ely
				n1 := elz*layer + elx*(nely+1) + ely
				n2 := n1 + (nely + 1)
				n3 := n2 + 1
				n4 := n1 + 1
				n5 := n1 + layer
				n6 := n5 + (nely + 1)
				n7 := n6 + 1
				n8 := n5 + 1
				dofs := make([]int, 0, 24)
				for _, n := range [8]int{n1, n2, n3, n4, n5, n6, n7, n8} {
					dofs = append(dofs, 3*n, 3*n+1, 3*n+2)
				}
				c.dofs[el] = dofs
			}
		}
	}
}
