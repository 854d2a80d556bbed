package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/questparty/backend/internal/common"
	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/internal/model"
	"github.com/questparty/backend/internal/repository"
	"github.com/questparty/backend/pkg/enum"
	"github.com/questparty/backend/pkg/errorx"
	"github.com/questparty/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ApplicationDomain interface {
	Apply(context.Context, *model.ApplyRequest) (*model.ApplyResponse, error)
	GetList(context.Context, *model.GetApplicationsRequest) (*model.GetApplicationsResponse, error)
	GetMyList(context.Context, *model.GetMyApplicationsRequest) (*model.GetMyApplicationsResponse, error)
	Approve(context.Context, *model.ApproveApplicationRequest) (*model.ApproveApplicationResponse, error)
	Reject(context.Context, *model.RejectApplicationRequest) (*model.RejectApplicationResponse, error)
	Withdraw(context.Context, *model.WithdrawApplicationRequest) (*model.WithdrawApplicationResponse, error)
}

type applicationDomain struct {
	applicationRepo   repository.ApplicationRepository
	questRepo         repository.QuestRepository
	partyRepo         repository.PartyRepository
	partyMemberRepo   repository.PartyMemberRepository
	userRepo          repository.UserRepository
	notificationRepo  repository.NotificationRepository
	partyRoleVerifier *common.PartyRoleVerifier
}

func NewApplicationDomain(
	applicationRepo repository.ApplicationRepository,
	questRepo repository.QuestRepository,
	partyRepo repository.PartyRepository,
	partyMemberRepo repository.PartyMemberRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
) ApplicationDomain {
	return &applicationDomain{
		applicationRepo:   applicationRepo,
		questRepo:         questRepo,
		partyRepo:         partyRepo,
		partyMemberRepo:   partyMemberRepo,
		userRepo:          userRepo,
		notificationRepo:  notificationRepo,
		partyRoleVerifier: common.NewPartyRoleVerifier(partyMemberRepo),
	}
}

func (d *applicationDomain) Apply(
	ctx context.Context, req *model.ApplyRequest,
) (*model.ApplyResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	quest, err := d.questRepo.GetByID(ctx, req.QuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	if quest.Status != entity.QuestActive {
		return nil, errorx.New(errorx.Unavailable, "Quest is not recruiting")
	}

	if quest.CreatorID == userID {
		return nil, errorx.New(errorx.BadRequest, "Cannot apply to your own quest")
	}

	if _, err := d.applicationRepo.GetActive(ctx, quest.ID, userID); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "You already applied to this quest")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get application: %v", err)
		return nil, errorx.Unknown
	}

	if quest.PartyID.Valid {
		member, err := d.partyMemberRepo.Get(ctx, quest.PartyID.String, userID)
		if err == nil && member.Status == entity.MemberActive {
			return nil, errorx.New(errorx.AlreadyExists, "You are already a party member")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get party member: %v", err)
			return nil, errorx.Unknown
		}
	}

	application := &entity.Application{
		Base:           entity.Base{ID: uuid.NewString()},
		QuestID:        quest.ID,
		ApplicantID:    userID,
		Status:         entity.ApplicationPending,
		Message:        []byte(req.Message),
		ProposedRole:   req.ProposedRole,
		RelevantSkills: []byte(req.RelevantSkills),
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.applicationRepo.Create(ctx, application); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create application: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.questRepo.IncreaseApplicationCount(ctx, quest.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase application count: %v", err)
		return nil, errorx.Unknown
	}

	if quest.AutoApprove {
		if err := d.approveTx(ctx, quest, application, ""); err != nil {
			return nil, err
		}
	}

	applicant, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get applicant: %v", err)
		return nil, errorx.Unknown
	}

	err = notify(ctx, d.notificationRepo, quest.CreatorID, entity.NotifyApplicationReceived,
		"New application",
		applicant.Name+" applied to "+quest.Title,
		applicationMetadata{
			QuestID:       quest.ID,
			QuestTitle:    quest.Title,
			ApplicationID: application.ID,
		})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create notification: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.ApplyResponse{
		Application: model.ConvertApplication(application, applicant),
	}, nil
}

func (d *applicationDomain) GetList(
	ctx context.Context, req *model.GetApplicationsRequest,
) (*model.GetApplicationsResponse, error) {
	quest, err := d.questRepo.GetByID(ctx, req.QuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	if quest.CreatorID != xcontext.RequestUserID(ctx) {
		if !quest.PartyID.Valid {
			return nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
		}

		_, err := d.partyRoleVerifier.Verify(ctx, quest.PartyID.String, common.ReviewApplications)
		if err != nil {
			return nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
		}
	}

	offset, limit := common.Pagination(req.Offset, req.Limit)
	filter := repository.ApplicationFilter{
		QuestID: quest.ID,
		Offset:  offset,
		Limit:   limit,
	}

	if req.Status != "" {
		status, err := enum.ToEnum[entity.ApplicationStatusType](req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
		}

		filter.Status = status
	}

	applications, err := d.applicationRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get applications: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.convertApplications(ctx, applications)
	if err != nil {
		return nil, err
	}

	return &model.GetApplicationsResponse{Applications: result}, nil
}

func (d *applicationDomain) GetMyList(
	ctx context.Context, req *model.GetMyApplicationsRequest,
) (*model.GetMyApplicationsResponse, error) {
	offset, limit := common.Pagination(req.Offset, req.Limit)
	filter := repository.ApplicationFilter{
		ApplicantID: xcontext.RequestUserID(ctx),
		Offset:      offset,
		Limit:       limit,
	}

	if req.Status != "" {
		status, err := enum.ToEnum[entity.ApplicationStatusType](req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
		}

		filter.Status = status
	}

	applications, err := d.applicationRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get applications: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.convertApplications(ctx, applications)
	if err != nil {
		return nil, err
	}

	return &model.GetMyApplicationsResponse{Applications: result}, nil
}

func (d *applicationDomain) Approve(
	ctx context.Context, req *model.ApproveApplicationRequest,
) (*model.ApproveApplicationResponse, error) {
	application, quest, err := d.getReviewableApplication(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.approveTx(ctx, quest, application, req.Feedback); err != nil {
		return nil, err
	}

	applicant, err := d.userRepo.GetByID(ctx, application.ApplicantID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get applicant: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.ApproveApplicationResponse{
		Application: model.ConvertApplication(application, applicant),
	}, nil
}

// approveTx performs the approval inside the caller's transaction. It
// recounts approved applications under the transaction so two concurrent
// reviews cannot overfill the party, and closes the quest when the party
// becomes full.
func (d *applicationDomain) approveTx(
	ctx context.Context, quest *entity.Quest, application *entity.Application, feedback string,
) error {
	approvedCount, err := d.applicationRepo.CountApproved(ctx, quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count approved applications: %v", err)
		return errorx.Unknown
	}

	// The creator occupies one slot.
	if approvedCount+1 >= int64(quest.PartySizeMax) {
		return errorx.New(errorx.Unavailable, "Party is already full")
	}

	now := time.Now()
	err = d.applicationRepo.UpdateStatus(ctx, application.ID, entity.ApplicationPending,
		&entity.Application{
			Status:           entity.ApplicationApproved,
			ReviewerFeedback: []byte(feedback),
			ReviewedAt:       nullTime(now),
		})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.BadRequest, "Application is not pending")
		}

		xcontext.Logger(ctx).Errorf("Cannot approve application: %v", err)
		return errorx.Unknown
	}

	application.Status = entity.ApplicationApproved
	application.ReviewerFeedback = []byte(feedback)
	application.ReviewedAt = nullTime(now)

	if err := d.questRepo.IncreasePartySize(ctx, quest.ID, 1); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.Unavailable, "Party is already full")
		}

		xcontext.Logger(ctx).Errorf("Cannot increase party size: %v", err)
		return errorx.Unknown
	}

	quest.CurrentPartySize++

	err = notify(ctx, d.notificationRepo, application.ApplicantID, entity.NotifyApplicationApproved,
		"Application approved",
		"You were accepted to "+quest.Title,
		applicationMetadata{
			QuestID:       quest.ID,
			QuestTitle:    quest.Title,
			ApplicationID: application.ID,
		})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create notification: %v", err)
		return errorx.Unknown
	}

	if quest.CurrentPartySize >= quest.PartySizeMax {
		_, err := closeQuest(
			ctx, d.questRepo, d.partyRepo, d.partyMemberRepo, d.applicationRepo, d.userRepo, quest)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot close the full quest: %v", err)
			return errorx.Unknown
		}
	}

	return nil
}

func (d *applicationDomain) Reject(
	ctx context.Context, req *model.RejectApplicationRequest,
) (*model.RejectApplicationResponse, error) {
	application, quest, err := d.getReviewableApplication(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.applicationRepo.UpdateStatus(ctx, application.ID, entity.ApplicationPending,
		&entity.Application{
			Status:           entity.ApplicationRejected,
			ReviewerFeedback: []byte(req.Feedback),
			ReviewedAt:       nullTime(now),
		})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "Application is not pending")
		}

		xcontext.Logger(ctx).Errorf("Cannot reject application: %v", err)
		return nil, errorx.Unknown
	}

	application.Status = entity.ApplicationRejected
	application.ReviewerFeedback = []byte(req.Feedback)
	application.ReviewedAt = nullTime(now)

	err = notify(ctx, d.notificationRepo, application.ApplicantID, entity.NotifyApplicationRejected,
		"Application rejected",
		"Your application to "+quest.Title+" was rejected",
		applicationMetadata{
			QuestID:       quest.ID,
			QuestTitle:    quest.Title,
			ApplicationID: application.ID,
		})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create notification: %v", err)
		return nil, errorx.Unknown
	}

	applicant, err := d.userRepo.GetByID(ctx, application.ApplicantID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get applicant: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.RejectApplicationResponse{
		Application: model.ConvertApplication(application, applicant),
	}, nil
}

func (d *applicationDomain) Withdraw(
	ctx context.Context, req *model.WithdrawApplicationRequest,
) (*model.WithdrawApplicationResponse, error) {
	application, err := d.applicationRepo.GetByID(ctx, req.ApplicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found application")
		}

		xcontext.Logger(ctx).Errorf("Cannot get application: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	if application.ApplicantID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
	}

	err = d.applicationRepo.UpdateStatus(ctx, application.ID, entity.ApplicationPending,
		&entity.Application{Status: entity.ApplicationWithdrawn})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "Application is not pending")
		}

		xcontext.Logger(ctx).Errorf("Cannot withdraw application: %v", err)
		return nil, errorx.Unknown
	}

	application.Status = entity.ApplicationWithdrawn

	applicant, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get applicant: %v", err)
		return nil, errorx.Unknown
	}

	return &model.WithdrawApplicationResponse{
		Application: model.ConvertApplication(application, applicant),
	}, nil
}

// getReviewableApplication loads the application and its quest, then checks
// the requester can review for that quest.
func (d *applicationDomain) getReviewableApplication(
	ctx context.Context, applicationID string,
) (*entity.Application, *entity.Quest, error) {
	application, err := d.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errorx.New(errorx.NotFound, "Not found application")
		}

		xcontext.Logger(ctx).Errorf("Cannot get application: %v", err)
		return nil, nil, errorx.Unknown
	}

	quest, err := d.questRepo.GetByID(ctx, application.QuestID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, nil, errorx.Unknown
	}

	if quest.CreatorID != xcontext.RequestUserID(ctx) {
		if !quest.PartyID.Valid {
			return nil, nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
		}

		_, err := d.partyRoleVerifier.Verify(ctx, quest.PartyID.String, common.ReviewApplications)
		if err != nil {
			return nil, nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
		}
	}

	if quest.Status != entity.QuestActive {
		return nil, nil, errorx.New(errorx.Unavailable, "Quest is not recruiting")
	}

	return application, quest, nil
}

func (d *applicationDomain) convertApplications(
	ctx context.Context, applications []entity.Application,
) ([]model.Application, error) {
	applicantIDs := []string{}
	for _, application := range applications {
		applicantIDs = append(applicantIDs, application.ApplicantID)
	}

	applicants, err := d.userRepo.GetByIDs(ctx, applicantIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get applicants: %v", err)
		return nil, errorx.Unknown
	}

	applicantByID := map[string]entity.User{}
	for _, applicant := range applicants {
		applicantByID[applicant.ID] = applicant
	}

	result := []model.Application{}
	for i := range applications {
		applicant, ok := applicantByID[applications[i].ApplicantID]
		if !ok {
			continue
		}

		result = append(result, model.ConvertApplication(&applications[i], &applicant))
	}

	return result, nil
}
