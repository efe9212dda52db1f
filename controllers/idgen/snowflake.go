// Package idgen hands out snowflake ids for audit rows. Ids are sortable by
// creation time, which is what the activity log is ordered on.
package idgen

import (
	"log"

	"github.com/bwmarrin/snowflake"
)

var node *snowflake.Node

// Init creates the process-wide generator node. Must run before the first
// GenerateID call; the service is single-node so the node number is fixed.
func Init() {
	var err error
	node, err = snowflake.NewNode(1)
	if err != nil {
		log.Fatalf("Failed to init Snowflake: %v", err)
	}
}

func GenerateID() int64 {
	return node.Generate().Int64()
}
