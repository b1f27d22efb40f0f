package store

import "hash/fnv"

// DefaultShardCount is the default number of lock stripes for the keyed stores.
const DefaultShardCount = 16

// shardIndex maps a key to a shard. FNV-1a keeps unrelated keys spread across
// stripes so concurrent writers on different users/elements rarely contend.
func shardIndex(key string, shards int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(shards))
}

// normalizeShards clamps a configured shard count to a usable value.
func normalizeShards(n int) int {
	if n < 1 {
		return DefaultShardCount
	}
	return n
}
