package id

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

type Unique = int64

// node is fixed: ids never leave the process.
const node = 1

var generator = new(idGenerator)

type idGenerator struct {
	node *snowflake.Node
	once sync.Once
}

func (g *idGenerator) nextID() int64 {
	g.once.Do(func() {
		n, err := snowflake.NewNode(node)
		if err != nil {
			panic(fmt.Sprintf("failed to initialize snowflake node: %s", err))
		}
		g.node = n
	})
	return g.node.Generate().Int64()
}

// New returns a process-unique, time-ordered id.
func New() Unique {
	return generator.nextID()
}
