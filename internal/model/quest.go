package model

type CreateQuestRequest struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	Objective          string `json:"objective"`
	Type               string `json:"type"`
	Category           string `json:"category"`
	PartyID            string `json:"party_id"`
	PartySizeMin       int    `json:"party_size_min"`
	PartySizeMax       int    `json:"party_size_max"`
	RequiredCommitment string `json:"required_commitment"`
	LocationType       string `json:"location_type"`
	LocationDetail     string `json:"location_detail"`
	EstimatedDuration  string `json:"estimated_duration"`
	AutoApprove        bool   `json:"auto_approve"`
	Visibility         string `json:"visibility"`
	StartsAt           string `json:"starts_at"`
	Deadline           string `json:"deadline"`

	// Activate immediately instead of leaving the quest in draft.
	Activate bool `json:"activate"`
}

type CreateQuestResponse struct {
	Quest Quest `json:"quest"`
}

type GetQuestRequest struct {
	QuestID string `json:"quest_id"`
}

type GetQuestResponse struct {
	Quest Quest `json:"quest"`
}

type GetQuestsRequest struct {
	Q        string `json:"q"`
	Status   string `json:"status"`
	Category string `json:"category"`
	Offset   int    `json:"offset"`
	Limit    int    `json:"limit"`
}

type GetQuestsResponse struct {
	Quests []Quest `json:"quests"`
}

type GetMyQuestsRequest struct {
	Status string `json:"status"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetMyQuestsResponse struct {
	Quests []Quest `json:"quests"`
}

type GetRecommendedQuestsRequest struct {
	Limit int `json:"limit"`
}

type GetRecommendedQuestsResponse struct {
	Quests []Quest `json:"quests"`
}

type UpdateQuestRequest struct {
	QuestID            string `json:"quest_id"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	Objective          string `json:"objective"`
	Category           string `json:"category"`
	PartySizeMin       int    `json:"party_size_min"`
	PartySizeMax       int    `json:"party_size_max"`
	RequiredCommitment string `json:"required_commitment"`
	LocationType       string `json:"location_type"`
	LocationDetail     string `json:"location_detail"`
	EstimatedDuration  string `json:"estimated_duration"`
	Visibility         string `json:"visibility"`
	StartsAt           string `json:"starts_at"`
	Deadline           string `json:"deadline"`
}

type UpdateQuestResponse struct {
	Quest Quest `json:"quest"`
}

type DeleteQuestRequest struct {
	QuestID string `json:"quest_id"`
}

type DeleteQuestResponse struct{}

type ActivateQuestRequest struct {
	QuestID string `json:"quest_id"`
}

type ActivateQuestResponse struct {
	Quest Quest `json:"quest"`
}

type CloseQuestRequest struct {
	QuestID string `json:"quest_id"`

	// Force closes below party_size_min.
	Force bool `json:"force"`
}

type CloseQuestResponse struct {
	Quest Quest `json:"quest"`
	Party Party `json:"party"`
}

type CompleteQuestRequest struct {
	QuestID string `json:"quest_id"`
}

type CompleteQuestResponse struct {
	Quest Quest `json:"quest"`
}

type CancelQuestRequest struct {
	QuestID string `json:"quest_id"`
}

type CancelQuestResponse struct {
	Quest Quest `json:"quest"`
}

type ArchiveQuestRequest struct {
	QuestID string `json:"quest_id"`
}

type ArchiveQuestResponse struct {
	Quest Quest `json:"quest"`
}

type MergeQuestRequest struct {
	SourceQuestID string `json:"source_quest_id"`
	TargetQuestID string `json:"target_quest_id"`
}

type MergeQuestResponse struct {
	MovedApplications int64 `json:"moved_applications"`
}
