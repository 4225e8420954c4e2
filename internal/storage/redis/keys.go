package redis

import (
	"fmt"

	"github.com/aulaplay/aulaplay-go/internal/model"
)

// Key prefix for all platform data
const keyPrefix = "aulaplay"

// Key generation functions for each entity type

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the SET of all game ids
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// attemptKey returns the Redis key for a GameAttempt
func attemptKey(id model.AttemptID) string {
	return fmt.Sprintf("%s:attempt:%s", keyPrefix, id)
}

// attemptsIndexKey returns the Redis key for the LIST of attempt ids for a
// (user, game) pair, in arrival order
func attemptsIndexKey(user model.UserID, game model.GameID) string {
	return fmt.Sprintf("%s:idx:attempts:%s:%s", keyPrefix, user, game)
}

// statsKey returns the Redis key for a UserGameStats row
func statsKey(user model.UserID, game model.GameID) string {
	return fmt.Sprintf("%s:stats:%s:%s", keyPrefix, user, game)
}

// statsIndexKey returns the Redis key for the SET of stats keys
func statsIndexKey() string {
	return fmt.Sprintf("%s:idx:stats", keyPrefix)
}

// scoreKey returns the Redis key for a legacy Score row. The key is derived
// from the uniqueness triple, so a plain SET is the atomic upsert and two
// rows for the same triple cannot exist.
func scoreKey(key model.ScoreKey) string {
	return fmt.Sprintf("%s:score:%s:%s:%s", keyPrefix, key.User, key.Game, key.Theme)
}

// scoresIndexKey returns the Redis key for the SET of score row keys
func scoresIndexKey() string {
	return fmt.Sprintf("%s:idx:scores", keyPrefix)
}
