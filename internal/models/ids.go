package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// playerNamespace scopes derived player ids so they never collide with other v5 uuids
var playerNamespace = uuid.MustParse("6f1c7d9e-3b8a-5e42-9a0d-2c4b1e7f8a53")

// PlayerID derives a stable id from a player's name and team
func PlayerID(name, team string) string {
	key := strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToUpper(strings.TrimSpace(team))
	return uuid.NewSHA1(playerNamespace, []byte(key)).String()
}

// AssignPlayerIDs returns one id per projection, in order.
// Supplier ids win; otherwise ids are derived from name and team, and repeats
// within the batch get a "#n" suffix so every id stays unique.
func AssignPlayerIDs(projections []PlayerProjection) []string {
	ids := make([]string, len(projections))
	seen := make(map[string]int, len(projections))
	for i, p := range projections {
		id := p.ID
		if id == "" {
			id = PlayerID(p.Name, p.Team)
		}
		if n := seen[id]; n > 0 {
			seen[id] = n + 1
			id = fmt.Sprintf("%s#%d", id, n+1)
		} else {
			seen[id] = 1
		}
		ids[i] = id
	}
	return ids
}
