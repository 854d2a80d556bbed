package model

type ApplyRequest struct {
	QuestID        string `json:"quest_id"`
	Message        string `json:"message"`
	ProposedRole   string `json:"proposed_role"`
	RelevantSkills string `json:"relevant_skills"`
}

type ApplyResponse struct {
	Application Application `json:"application"`
}

type GetApplicationsRequest struct {
	QuestID string `json:"quest_id"`
	Status  string `json:"status"`
	Offset  int    `json:"offset"`
	Limit   int    `json:"limit"`
}

type GetApplicationsResponse struct {
	Applications []Application `json:"applications"`
}

type GetMyApplicationsRequest struct {
	Status string `json:"status"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetMyApplicationsResponse struct {
	Applications []Application `json:"applications"`
}

type ApproveApplicationRequest struct {
	ApplicationID string `json:"application_id"`
	Feedback      string `json:"feedback"`
}

type ApproveApplicationResponse struct {
	Application Application `json:"application"`
}

type RejectApplicationRequest struct {
	ApplicationID string `json:"application_id"`
	Feedback      string `json:"feedback"`
}

type RejectApplicationResponse struct {
	Application Application `json:"application"`
}

type WithdrawApplicationRequest struct {
	ApplicationID string `json:"application_id"`
}

type WithdrawApplicationResponse struct {
	Application Application `json:"application"`
}
