package main

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/questparty/backend/config"
	"github.com/questparty/backend/internal/domain"
	"github.com/questparty/backend/internal/domain/search"
	"github.com/questparty/backend/internal/model"
	"github.com/questparty/backend/internal/repository"
	"github.com/questparty/backend/pkg/authenticator"
	"github.com/questparty/backend/pkg/logger"
	"github.com/questparty/backend/pkg/router"
	"github.com/questparty/backend/pkg/ws"
	"github.com/questparty/backend/pkg/xcontext"
	"github.com/questparty/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App

	userRepo         repository.UserRepository
	questRepo        repository.QuestRepository
	partyRepo        repository.PartyRepository
	partyMemberRepo  repository.PartyMemberRepository
	applicationRepo  repository.ApplicationRepository
	tagRepo          repository.TagRepository
	userTagRepo      repository.UserTagRepository
	questTagRepo     repository.QuestTagRepository
	ratingRepo       repository.RatingRepository
	messageRepo      repository.MessageRepository
	notificationRepo repository.NotificationRepository
	achievementRepo  repository.AchievementRepository
	questMergeRepo   repository.QuestMergeRepository

	authDomain         domain.AuthDomain
	userDomain         domain.UserDomain
	questDomain        domain.QuestDomain
	applicationDomain  domain.ApplicationDomain
	partyDomain        domain.PartyDomain
	ratingDomain       domain.RatingDomain
	tagDomain          domain.TagDomain
	chatDomain         domain.ChatDomain
	notificationDomain domain.NotificationDomain

	router *router.Router

	db          *gorm.DB
	logger      logger.Logger
	redisClient xredis.Client
	searcher    search.Searcher
	hub         *ws.Hub
	idGenerator *snowflake.Node

	configs *config.Configs

	server *http.Server
}

// ctx builds the background context that the loaders and the workers run
// with. Request contexts are built separately by the router.
func (s *srv) ctx() context.Context {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, *s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	if s.db != nil {
		ctx = xcontext.WithDB(ctx, s.db)
	}

	return ctx
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRedis() {
	redisClient, err := xredis.NewClient(s.ctx())
	if err != nil {
		panic(err)
	}

	s.redisClient = redisClient
}

func (s *srv) loadSearcher() {
	s.searcher = search.NewBleveIndex(s.ctx())
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.questRepo = repository.NewQuestRepository()
	s.partyRepo = repository.NewPartyRepository()
	s.partyMemberRepo = repository.NewPartyMemberRepository()
	s.applicationRepo = repository.NewApplicationRepository()
	s.tagRepo = repository.NewTagRepository()
	s.userTagRepo = repository.NewUserTagRepository()
	s.questTagRepo = repository.NewQuestTagRepository()
	s.ratingRepo = repository.NewRatingRepository()
	s.messageRepo = repository.NewMessageRepository()
	s.notificationRepo = repository.NewNotificationRepository()
	s.achievementRepo = repository.NewAchievementRepository()
	s.questMergeRepo = repository.NewQuestMergeRepository()
}

func (s *srv) loadDomains() {
	cfg := s.configs.Auth
	accessTokenEngine := authenticatorEngine(cfg.AccessToken)
	refreshTokenEngine := authenticatorEngine(cfg.RefreshToken)

	s.hub = ws.NewHub()
	go s.hub.Run()

	var err error
	s.idGenerator, err = snowflake.NewNode(s.configs.Chat.NodeID)
	if err != nil {
		panic(err)
	}

	s.authDomain = domain.NewAuthDomain(s.userRepo, accessTokenEngine, refreshTokenEngine)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.achievementRepo)
	s.questDomain = domain.NewQuestDomain(
		s.questRepo, s.partyRepo, s.partyMemberRepo, s.applicationRepo, s.userRepo,
		s.userTagRepo, s.questTagRepo, s.tagRepo, s.notificationRepo,
		s.achievementRepo, s.questMergeRepo, s.searcher)
	s.applicationDomain = domain.NewApplicationDomain(
		s.applicationRepo, s.questRepo, s.partyRepo, s.partyMemberRepo,
		s.userRepo, s.notificationRepo)
	s.partyDomain = domain.NewPartyDomain(
		s.partyRepo, s.partyMemberRepo, s.questRepo, s.userRepo, s.notificationRepo)
	s.ratingDomain = domain.NewRatingDomain(
		s.ratingRepo, s.questRepo, s.partyRepo, s.partyMemberRepo,
		s.userRepo, s.achievementRepo, s.redisClient)
	s.tagDomain = domain.NewTagDomain(
		s.tagRepo, s.userTagRepo, s.questTagRepo, s.questRepo,
		s.userRepo, s.redisClient)
	s.chatDomain = domain.NewChatDomain(
		s.messageRepo, s.partyRepo, s.partyMemberRepo, s.userRepo,
		s.hub, s.idGenerator)
	s.notificationDomain = domain.NewNotificationDomain(s.notificationRepo)
}

func authenticatorEngine(cfg config.TokenConfigs) authenticator.TokenEngine[model.AccessToken] {
	return authenticator.NewTokenEngine[model.AccessToken](cfg)
}
