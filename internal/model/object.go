package model

type ShortUser struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Reputation float64 `json:"reputation"`
}

type User struct {
	ShortUser
	Email                string  `json:"email,omitempty"`
	Bio                  string  `json:"bio"`
	Location             string  `json:"location"`
	Timezone             string  `json:"timezone"`
	Role                 string  `json:"role,omitempty"`
	QuestCompletionRate  float64 `json:"quest_completion_rate"`
	TotalCompletedQuests int     `json:"total_completed_quests"`
	TotalJoinedQuests    int     `json:"total_joined_quests"`
	RatingCount          int     `json:"rating_count"`
	CreatedAt            string  `json:"created_at"`
}

type Quest struct {
	ID                 string     `json:"id"`
	Creator            ShortUser  `json:"creator"`
	PartyID            string     `json:"party_id,omitempty"`
	Type               string     `json:"type"`
	Status             string     `json:"status"`
	Category           string     `json:"category"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Objective          string     `json:"objective"`
	PartySizeMin       int        `json:"party_size_min"`
	PartySizeMax       int        `json:"party_size_max"`
	CurrentPartySize   int        `json:"current_party_size"`
	ApplicationCount   int        `json:"application_count"`
	ViewCount          int        `json:"view_count"`
	RequiredCommitment string     `json:"required_commitment"`
	LocationType       string     `json:"location_type"`
	LocationDetail     string     `json:"location_detail,omitempty"`
	EstimatedDuration  string     `json:"estimated_duration,omitempty"`
	AutoApprove        bool       `json:"auto_approve"`
	Visibility         string     `json:"visibility"`
	StartsAt           string     `json:"starts_at,omitempty"`
	Deadline           string     `json:"deadline,omitempty"`
	ActivatedAt        string     `json:"activated_at,omitempty"`
	CompletedAt        string     `json:"completed_at,omitempty"`
	CreatedAt          string     `json:"created_at"`
	Tags               []QuestTag `json:"tags,omitempty"`
}

type Party struct {
	ID          string        `json:"id"`
	QuestID     string        `json:"quest_id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	FormedAt    string        `json:"formed_at,omitempty"`
	CompletedAt string        `json:"completed_at,omitempty"`
	ArchivedAt  string        `json:"archived_at,omitempty"`
	Members     []PartyMember `json:"members,omitempty"`
}

type PartyMember struct {
	User     ShortUser `json:"user"`
	Role     string    `json:"role"`
	Status   string    `json:"status"`
	JoinedAt string    `json:"joined_at"`
}

type Application struct {
	ID               string    `json:"id"`
	QuestID          string    `json:"quest_id"`
	Applicant        ShortUser `json:"applicant"`
	Status           string    `json:"status"`
	Message          string    `json:"message"`
	ProposedRole     string    `json:"proposed_role,omitempty"`
	RelevantSkills   string    `json:"relevant_skills,omitempty"`
	ReviewerFeedback string    `json:"reviewer_feedback,omitempty"`
	ReviewedAt       string    `json:"reviewed_at,omitempty"`
	CreatedAt        string    `json:"created_at"`
}

type Tag struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
	UsageCount  int    `json:"usage_count"`
}

type UserTag struct {
	Tag         Tag    `json:"tag"`
	Proficiency string `json:"proficiency"`
	IsPrimary   bool   `json:"is_primary"`
}

type QuestTag struct {
	Tag            Tag    `json:"tag"`
	IsRequired     bool   `json:"is_required"`
	MinProficiency string `json:"min_proficiency,omitempty"`
}

type Rating struct {
	ID                    string    `json:"id"`
	QuestID               string    `json:"quest_id"`
	Rater                 ShortUser `json:"rater"`
	RatedUser             ShortUser `json:"rated_user"`
	Overall               int       `json:"overall"`
	Collaboration         int       `json:"collaboration"`
	Communication         int       `json:"communication"`
	Reliability           int       `json:"reliability"`
	Skill                 int       `json:"skill"`
	Review                string    `json:"review,omitempty"`
	WouldCollaborateAgain bool      `json:"would_collaborate_again"`
	CreatedAt             string    `json:"created_at"`
}

type RatingSummary struct {
	RatingCount         int     `json:"rating_count"`
	AvgOverall          float64 `json:"avg_overall"`
	AvgCollaboration    float64 `json:"avg_collaboration"`
	AvgCommunication    float64 `json:"avg_communication"`
	AvgReliability      float64 `json:"avg_reliability"`
	AvgSkill            float64 `json:"avg_skill"`
	PositiveFeedbackPct float64 `json:"positive_feedback_pct"`
}

type ReputationBreakdown struct {
	Score           float64 `json:"score"`
	WeightedAverage float64 `json:"weighted_average"`
	CompletionBonus float64 `json:"completion_bonus"`
	VolumeBonus     float64 `json:"volume_bonus"`
	RatingCount     int     `json:"rating_count"`
}

type Message struct {
	ID        int64     `json:"id"`
	PartyID   string    `json:"party_id"`
	Author    ShortUser `json:"author"`
	Status    string    `json:"status"`
	Content   string    `json:"content"`
	ReplyTo   int64     `json:"reply_to,omitempty"`
	CreatedAt string    `json:"created_at"`
}

type Notification struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	IsRead    bool           `json:"is_read"`
	ReadAt    string         `json:"read_at,omitempty"`
	CreatedAt string         `json:"created_at"`
}

type Achievement struct {
	Type      string `json:"type"`
	AwardedAt string `json:"awarded_at"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}
