package common

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cast"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	snowflakeNode *snowflake.Node
	nodeOnce      sync.Once
)

func initNode() {
	nodeID := cast.ToInt64(os.Getenv("EMPRENDIA_NODE_ID")) % 1024
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		panic(err)
	}
	snowflakeNode = node
}

// UUIDint64 returns a cluster-unique int64 identifier.
func UUIDint64() int64 {
	nodeOnce.Do(initNode)
	return snowflakeNode.Generate().Int64()
}

// UUID returns a cluster-unique base36 string identifier.
func UUID() string {
	nodeOnce.Do(initNode)
	return strings.ToLower(snowflakeNode.Generate().Base36())
}

// Sha256Hash returns the hex sha256 of src.
func Sha256Hash(src string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(src)))
}

// Sha256HashWithSalt returns the hex sha256 of src concatenated with salt.
func Sha256HashWithSalt(src, salt string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(src+salt)))
}

// GetSecretSalt reads the shared secret salt, falling back to a static
// development value.
func GetSecretSalt() string {
	if v := os.Getenv("EMPRENDIA_SECRET_SALT"); v != "" {
		return v
	}
	return "emprendia-dev-salt"
}

// InSlice reports whether v is present in vals.
func InSlice(v string, vals []string) bool {
	for _, s := range vals {
		if s == v {
			return true
		}
	}
	return false
}
