package model

type SubmitRatingRequest struct {
	QuestID               string `json:"quest_id"`
	RatedUserID           string `json:"rated_user_id"`
	Overall               int    `json:"overall"`
	Collaboration         int    `json:"collaboration"`
	Communication         int    `json:"communication"`
	Reliability           int    `json:"reliability"`
	Skill                 int    `json:"skill"`
	Review                string `json:"review"`
	WouldCollaborateAgain bool   `json:"would_collaborate_again"`
}

type SubmitRatingResponse struct {
	Rating Rating `json:"rating"`
}

type UpdateRatingRequest struct {
	RatingID              string `json:"rating_id"`
	Overall               int    `json:"overall"`
	Collaboration         int    `json:"collaboration"`
	Communication         int    `json:"communication"`
	Reliability           int    `json:"reliability"`
	Skill                 int    `json:"skill"`
	Review                string `json:"review"`
	WouldCollaborateAgain bool   `json:"would_collaborate_again"`
}

type UpdateRatingResponse struct {
	Rating Rating `json:"rating"`
}

type DeleteRatingRequest struct {
	RatingID string `json:"rating_id"`
}

type DeleteRatingResponse struct{}

type GetQuestRatingsRequest struct {
	QuestID string `json:"quest_id"`
}

type GetQuestRatingsResponse struct {
	Ratings []Rating `json:"ratings"`
}

type GetRatingSummaryRequest struct {
	UserID string `json:"user_id"`
}

type GetRatingSummaryResponse struct {
	Summary RatingSummary `json:"summary"`
}

type GetReputationRequest struct {
	UserID string `json:"user_id"`
}

type GetReputationResponse struct {
	Breakdown ReputationBreakdown `json:"breakdown"`
}
