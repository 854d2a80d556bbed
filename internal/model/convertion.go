package model

import (
	"time"

	"github.com/questparty/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertShortUser(user *entity.User) ShortUser {
	if user == nil {
		return ShortUser{}
	}

	return ShortUser{
		ID:         user.ID,
		Name:       user.Name,
		Reputation: user.ReputationScore,
	}
}

func ConvertUser(user *entity.User, includeSensitive bool) User {
	if user == nil {
		return User{}
	}

	email := user.Email
	role := user.Role
	if !includeSensitive {
		email = ""
		role = ""
	}

	return User{
		ShortUser:            ConvertShortUser(user),
		Email:                email,
		Bio:                  string(user.Bio),
		Location:             user.Location,
		Timezone:             user.Timezone,
		Role:                 role,
		QuestCompletionRate:  user.QuestCompletionRate,
		TotalCompletedQuests: user.TotalCompletedQuests,
		TotalJoinedQuests:    user.TotalJoinedQuests,
		RatingCount:          user.RatingCount,
		CreatedAt:            user.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertQuest(quest *entity.Quest, creator *entity.User, tags []QuestTag) Quest {
	if quest == nil {
		return Quest{}
	}

	result := Quest{
		ID:                 quest.ID,
		Creator:            ConvertShortUser(creator),
		Type:               string(quest.Type),
		Status:             string(quest.Status),
		Category:           string(quest.Category),
		Title:              quest.Title,
		Description:        string(quest.Description),
		Objective:          string(quest.Objective),
		PartySizeMin:       quest.PartySizeMin,
		PartySizeMax:       quest.PartySizeMax,
		CurrentPartySize:   quest.CurrentPartySize,
		ApplicationCount:   quest.ApplicationCount,
		ViewCount:          quest.ViewCount,
		RequiredCommitment: string(quest.RequiredCommitment),
		LocationType:       string(quest.LocationType),
		LocationDetail:     quest.LocationDetail,
		EstimatedDuration:  quest.EstimatedDuration,
		AutoApprove:        quest.AutoApprove,
		Visibility:         string(quest.Visibility),
		CreatedAt:          quest.CreatedAt.Format(DefaultTimeLayout),
		Tags:               tags,
	}

	if quest.PartyID.Valid {
		result.PartyID = quest.PartyID.String
	}

	if quest.StartsAt.Valid {
		result.StartsAt = quest.StartsAt.Time.Format(DefaultTimeLayout)
	}

	if quest.Deadline.Valid {
		result.Deadline = quest.Deadline.Time.Format(DefaultTimeLayout)
	}

	if quest.ActivatedAt.Valid {
		result.ActivatedAt = quest.ActivatedAt.Time.Format(DefaultTimeLayout)
	}

	if quest.CompletedAt.Valid {
		result.CompletedAt = quest.CompletedAt.Time.Format(DefaultTimeLayout)
	}

	return result
}

func ConvertParty(party *entity.Party, members []PartyMember) Party {
	if party == nil {
		return Party{}
	}

	result := Party{
		ID:          party.ID,
		QuestID:     party.QuestID,
		Name:        party.Name,
		Description: string(party.Description),
		Status:      string(party.Status),
		Members:     members,
	}

	if party.FormedAt.Valid {
		result.FormedAt = party.FormedAt.Time.Format(DefaultTimeLayout)
	}

	if party.CompletedAt.Valid {
		result.CompletedAt = party.CompletedAt.Time.Format(DefaultTimeLayout)
	}

	if party.ArchivedAt.Valid {
		result.ArchivedAt = party.ArchivedAt.Time.Format(DefaultTimeLayout)
	}

	return result
}

func ConvertPartyMember(member *entity.PartyMember, user *entity.User) PartyMember {
	if member == nil {
		return PartyMember{}
	}

	return PartyMember{
		User:     ConvertShortUser(user),
		Role:     string(member.Role),
		Status:   string(member.Status),
		JoinedAt: member.JoinedAt.Format(DefaultTimeLayout),
	}
}

func ConvertApplication(application *entity.Application, applicant *entity.User) Application {
	if application == nil {
		return Application{}
	}

	result := Application{
		ID:               application.ID,
		QuestID:          application.QuestID,
		Applicant:        ConvertShortUser(applicant),
		Status:           string(application.Status),
		Message:          string(application.Message),
		ProposedRole:     application.ProposedRole,
		RelevantSkills:   string(application.RelevantSkills),
		ReviewerFeedback: string(application.ReviewerFeedback),
		CreatedAt:        application.CreatedAt.Format(DefaultTimeLayout),
	}

	if application.ReviewedAt.Valid {
		result.ReviewedAt = application.ReviewedAt.Time.Format(DefaultTimeLayout)
	}

	return result
}

func ConvertTag(tag *entity.Tag) Tag {
	if tag == nil {
		return Tag{}
	}

	return Tag{
		ID:          tag.ID,
		Name:        tag.Name,
		Slug:        tag.Slug,
		Category:    string(tag.Category),
		Status:      string(tag.Status),
		Description: tag.Description,
		UsageCount:  tag.UsageCount,
	}
}

func ConvertUserTag(userTag *entity.UserTag, tag *entity.Tag) UserTag {
	if userTag == nil {
		return UserTag{}
	}

	return UserTag{
		Tag:         ConvertTag(tag),
		Proficiency: string(userTag.Proficiency),
		IsPrimary:   userTag.IsPrimary,
	}
}

func ConvertQuestTag(questTag *entity.QuestTag, tag *entity.Tag) QuestTag {
	if questTag == nil {
		return QuestTag{}
	}

	return QuestTag{
		Tag:            ConvertTag(tag),
		IsRequired:     questTag.IsRequired,
		MinProficiency: string(questTag.MinProficiency),
	}
}

func ConvertRating(rating *entity.Rating, rater, ratedUser *entity.User) Rating {
	if rating == nil {
		return Rating{}
	}

	return Rating{
		ID:                    rating.ID,
		QuestID:               rating.QuestID,
		Rater:                 ConvertShortUser(rater),
		RatedUser:             ConvertShortUser(ratedUser),
		Overall:               rating.Overall,
		Collaboration:         rating.Collaboration,
		Communication:         rating.Communication,
		Reliability:           rating.Reliability,
		Skill:                 rating.Skill,
		Review:                string(rating.Review),
		WouldCollaborateAgain: rating.WouldCollaborateAgain,
		CreatedAt:             rating.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertMessage(message *entity.Message, author *entity.User) Message {
	if message == nil {
		return Message{}
	}

	content := message.Content
	if message.Status == entity.MessageDeleted {
		content = ""
	}

	return Message{
		ID:        message.ID,
		PartyID:   message.PartyID,
		Author:    ConvertShortUser(author),
		Status:    string(message.Status),
		Content:   content,
		ReplyTo:   message.ReplyTo,
		CreatedAt: message.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertNotification(notification *entity.Notification) Notification {
	if notification == nil {
		return Notification{}
	}

	result := Notification{
		ID:        notification.ID,
		Type:      string(notification.Type),
		Title:     notification.Title,
		Content:   string(notification.Content),
		Metadata:  notification.Metadata,
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt.Format(DefaultTimeLayout),
	}

	if notification.ReadAt.Valid {
		result.ReadAt = notification.ReadAt.Time.Format(DefaultTimeLayout)
	}

	return result
}

func ConvertAchievement(achievement *entity.Achievement) Achievement {
	if achievement == nil {
		return Achievement{}
	}

	return Achievement{
		Type:      string(achievement.Type),
		AwardedAt: achievement.AwardedAt.Format(DefaultTimeLayout),
	}
}
