package model

type GetUserRequest struct {
	UserID string `json:"user_id"`
}

type GetUserResponse struct {
	User User `json:"user"`
}

type GetMeRequest struct{}

type GetMeResponse struct {
	User User `json:"user"`
}

type UpdateUserRequest struct {
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Location string `json:"location"`
	Timezone string `json:"timezone"`
}

type UpdateUserResponse struct {
	User User `json:"user"`
}

type GetUserAchievementsRequest struct {
	UserID string `json:"user_id"`
}

type GetUserAchievementsResponse struct {
	Achievements []Achievement `json:"achievements"`
}
