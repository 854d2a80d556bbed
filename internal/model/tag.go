package model

type CreateTagRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type CreateTagResponse struct {
	Tag Tag `json:"tag"`
}

type GetTagsRequest struct {
	Category string `json:"category"`
	Status   string `json:"status"`
	Q        string `json:"q"`
	Offset   int    `json:"offset"`
	Limit    int    `json:"limit"`
}

type GetTagsResponse struct {
	Tags []Tag `json:"tags"`
}

type GetPopularTagsRequest struct {
	Limit int `json:"limit"`
}

type GetPopularTagsResponse struct {
	Tags []Tag `json:"tags"`
}

type SuggestTagsRequest struct {
	Prefix string `json:"prefix"`
	Limit  int    `json:"limit"`
}

type SuggestTagsResponse struct {
	Tags []Tag `json:"tags"`
}

type GetTagCategoriesRequest struct{}

type GetTagCategoriesResponse struct {
	Categories []CategoryCount `json:"categories"`
}

type UpdateTagRequest struct {
	TagID       string `json:"tag_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type UpdateTagResponse struct {
	Tag Tag `json:"tag"`
}

type DeleteTagRequest struct {
	TagID string `json:"tag_id"`
}

type DeleteTagResponse struct{}

type AttachUserTagRequest struct {
	TagID       string `json:"tag_id"`
	Proficiency string `json:"proficiency"`
	IsPrimary   bool   `json:"is_primary"`
}

type AttachUserTagResponse struct {
	UserTag UserTag `json:"user_tag"`
}

type UpdateUserTagRequest struct {
	TagID       string `json:"tag_id"`
	Proficiency string `json:"proficiency"`
	IsPrimary   bool   `json:"is_primary"`
}

type UpdateUserTagResponse struct {
	UserTag UserTag `json:"user_tag"`
}

type DetachUserTagRequest struct {
	TagID string `json:"tag_id"`
}

type DetachUserTagResponse struct{}

type GetUserTagsRequest struct {
	UserID string `json:"user_id"`
}

type GetUserTagsResponse struct {
	UserTags []UserTag `json:"user_tags"`
}

type AttachQuestTagRequest struct {
	QuestID        string `json:"quest_id"`
	TagID          string `json:"tag_id"`
	IsRequired     bool   `json:"is_required"`
	MinProficiency string `json:"min_proficiency"`
}

type AttachQuestTagResponse struct {
	QuestTag QuestTag `json:"quest_tag"`
}

type UpdateQuestTagRequest struct {
	QuestID        string `json:"quest_id"`
	TagID          string `json:"tag_id"`
	IsRequired     bool   `json:"is_required"`
	MinProficiency string `json:"min_proficiency"`
}

type UpdateQuestTagResponse struct {
	QuestTag QuestTag `json:"quest_tag"`
}

type DetachQuestTagRequest struct {
	QuestID string `json:"quest_id"`
	TagID   string `json:"tag_id"`
}

type DetachQuestTagResponse struct{}

type GetQuestTagsRequest struct {
	QuestID string `json:"quest_id"`
}

type GetQuestTagsResponse struct {
	QuestTags []QuestTag `json:"quest_tags"`
}
