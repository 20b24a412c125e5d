package id

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// DiscordEpoch is the millisecond epoch Discord ids are based on.
const DiscordEpoch int64 = 1420070400000

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node with the given node ID. Generated ids
// share Discord's epoch so they read like any other id the bot handles.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		snowflake.Epoch = DiscordEpoch
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a new globally unique int64 ID using the Snowflake algorithm.
// IDs are time-ordered and unique across distributed instances.
func New() int64 {
	return node.Generate().Int64()
}

// Parse validates a Discord id such as a guild, channel or message id.
func Parse(raw string) (snowflake.ID, error) {
	sf, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing snowflake %q: %w", raw, err)
	}
	if sf <= 0 {
		return 0, fmt.Errorf("parsing snowflake %q: not positive", raw)
	}
	return sf, nil
}

// NewString is New formatted the way Discord ids travel: as decimal strings.
func NewString() string {
	return node.Generate().String()
}
