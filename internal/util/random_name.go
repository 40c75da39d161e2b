package util

import (
	"fmt"
	"piratepoker-server/internal/rng"
)

var adjectives = []string{
	"Salty", "Barnacle", "Scurvy", "One-Eyed", "Blackbeard", "Pegleg",
	"Ironhook", "Rum-Soaked", "Storm", "Ghost", "Crimson", "Shadow",
}

var nouns = []string{
	"Jack", "Bill", "Bones", "Morgan", "Cutlass", "Drake",
	"Sparrow", "Flint", "Silver", "Hook", "Kidd", "Rackham",
}

// GetRandomName returns a random pirate alias by combining an adjective with a name
func GetRandomName(gen rng.Generator) string {
	adjectivesIndex := gen.Intn(len(adjectives))
	nounsIndex := gen.Intn(len(nouns))

	return fmt.Sprintf("%s %s", adjectives[adjectivesIndex], nouns[nounsIndex])
}
