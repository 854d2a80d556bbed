package common

import "fmt"

func RedisKeyPopularTags() string {
	return "tags:popular"
}

func RedisKeyReputation(userID string) string {
	return fmt.Sprintf("reputation:%s", userID)
}
