package main

import (
	"net/http"

	"github.com/questparty/backend/internal/middleware"
	"github.com/questparty/backend/migration"
	"github.com/questparty/backend/pkg/router"
	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(ct *cli.Context) error {
	s.loadConfig(ct.String("config"))
	s.loadLogger()
	s.loadDatabase()
	s.loadRedis()
	s.loadSearcher()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()
	defer s.searcher.Close()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: c.Handler(s.router.Handler()),
	}

	s.logger.Infof("Starting server on %s", s.configs.ApiServer.Address())
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	return nil
}

func (s *srv) startMigrate(ct *cli.Context) error {
	s.loadConfig(ct.String("config"))
	s.loadLogger()
	s.loadDatabase()

	if err := migration.Migrate(s.ctx()); err != nil {
		return err
	}

	s.logger.Infof("Migrated successfully")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())

	authVerifier := middleware.NewAuthVerifier(authenticatorEngine(s.configs.Auth.AccessToken))

	// Auth API.
	router.POST(s.router, "/register", s.authDomain.Register)
	router.POST(s.router, "/login", s.authDomain.Login)
	router.POST(s.router, "/refresh", s.authDomain.Refresh)

	// Public reads. The verifier is optional so that creators still see
	// their own private quests.
	publicRouter := s.router.Branch()
	publicRouter.Before(middleware.NewAuthVerifier(
		authenticatorEngine(s.configs.Auth.AccessToken)).WithOptional().Middleware())
	{
		// User API.
		router.GET(publicRouter, "/getUser", s.userDomain.GetUser)
		router.GET(publicRouter, "/getUserAchievements", s.userDomain.GetAchievements)

		// Quest API.
		router.GET(publicRouter, "/getQuest", s.questDomain.Get)
		router.GET(publicRouter, "/getListQuest", s.questDomain.GetList)

		// Tag API.
		router.GET(publicRouter, "/getListTag", s.tagDomain.GetList)
		router.GET(publicRouter, "/getPopularTags", s.tagDomain.GetPopular)
		router.GET(publicRouter, "/suggestTags", s.tagDomain.Suggest)
		router.GET(publicRouter, "/getTagCategories", s.tagDomain.GetCategories)
		router.GET(publicRouter, "/getUserTags", s.tagDomain.GetUserTags)
		router.GET(publicRouter, "/getQuestTags", s.tagDomain.GetQuestTags)

		// Rating API.
		router.GET(publicRouter, "/getQuestRatings", s.ratingDomain.GetQuestRatings)
		router.GET(publicRouter, "/getRatingSummary", s.ratingDomain.GetSummary)
		router.GET(publicRouter, "/getReputation", s.ratingDomain.GetReputation)
	}

	// These following APIs require authentication.
	authRouter := s.router.Branch()
	authRouter.Before(authVerifier.Middleware())
	{
		// User API.
		router.GET(authRouter, "/getMe", s.userDomain.GetMe)
		router.POST(authRouter, "/updateUser", s.userDomain.Update)

		// Quest API.
		router.GET(authRouter, "/getMyListQuest", s.questDomain.GetMyList)
		router.GET(authRouter, "/getRecommendedQuests", s.questDomain.GetRecommended)
		router.POST(authRouter, "/createQuest", s.questDomain.Create)
		router.POST(authRouter, "/updateQuest", s.questDomain.Update)
		router.POST(authRouter, "/deleteQuest", s.questDomain.Delete)
		router.POST(authRouter, "/activateQuest", s.questDomain.Activate)
		router.POST(authRouter, "/closeQuest", s.questDomain.Close)
		router.POST(authRouter, "/completeQuest", s.questDomain.Complete)
		router.POST(authRouter, "/cancelQuest", s.questDomain.Cancel)
		router.POST(authRouter, "/archiveQuest", s.questDomain.Archive)
		router.POST(authRouter, "/mergeQuest", s.questDomain.Merge)

		// Application API.
		router.GET(authRouter, "/getListApplication", s.applicationDomain.GetList)
		router.GET(authRouter, "/getMyListApplication", s.applicationDomain.GetMyList)
		router.POST(authRouter, "/applyQuest", s.applicationDomain.Apply)
		router.POST(authRouter, "/approveApplication", s.applicationDomain.Approve)
		router.POST(authRouter, "/rejectApplication", s.applicationDomain.Reject)
		router.POST(authRouter, "/withdrawApplication", s.applicationDomain.Withdraw)

		// Party API.
		router.GET(authRouter, "/getParty", s.partyDomain.Get)
		router.GET(authRouter, "/getMyListParty", s.partyDomain.GetMyList)
		router.GET(authRouter, "/getListPartyMember", s.partyDomain.GetMembers)
		router.POST(authRouter, "/updateParty", s.partyDomain.Update)
		router.POST(authRouter, "/addPartyMember", s.partyDomain.AddMember)
		router.POST(authRouter, "/removePartyMember", s.partyDomain.RemoveMember)
		router.POST(authRouter, "/promotePartyMember", s.partyDomain.PromoteMember)
		router.POST(authRouter, "/demotePartyMember", s.partyDomain.DemoteMember)
		router.POST(authRouter, "/completeParty", s.partyDomain.Complete)
		router.POST(authRouter, "/archiveParty", s.partyDomain.Archive)

		// Rating API.
		router.POST(authRouter, "/submitRating", s.ratingDomain.Submit)
		router.POST(authRouter, "/updateRating", s.ratingDomain.Update)
		router.POST(authRouter, "/deleteRating", s.ratingDomain.Delete)

		// Tag API.
		router.POST(authRouter, "/createTag", s.tagDomain.Create)
		router.POST(authRouter, "/attachUserTag", s.tagDomain.AttachUserTag)
		router.POST(authRouter, "/updateUserTag", s.tagDomain.UpdateUserTag)
		router.POST(authRouter, "/detachUserTag", s.tagDomain.DetachUserTag)
		router.POST(authRouter, "/attachQuestTag", s.tagDomain.AttachQuestTag)
		router.POST(authRouter, "/updateQuestTag", s.tagDomain.UpdateQuestTag)
		router.POST(authRouter, "/detachQuestTag", s.tagDomain.DetachQuestTag)

		// Chat API.
		router.GET(authRouter, "/getListMessage", s.chatDomain.GetList)
		router.POST(authRouter, "/sendMessage", s.chatDomain.Send)
		router.POST(authRouter, "/deleteMessage", s.chatDomain.Delete)
		authRouter.Websocket("/chat", s.chatDomain.ServeChannel)

		// Notification API.
		router.GET(authRouter, "/getMyListNotification", s.notificationDomain.GetMyList)
		router.POST(authRouter, "/markNotificationRead", s.notificationDomain.MarkRead)
		router.POST(authRouter, "/markAllNotificationsRead", s.notificationDomain.MarkAllRead)
	}

	// These following APIs require an admin role.
	adminRouter := s.router.Branch()
	adminRouter.Before(authVerifier.Middleware())
	adminRouter.Before(middleware.NewOnlyAdmin(s.userRepo).Middleware())
	{
		router.POST(adminRouter, "/updateTag", s.tagDomain.Update)
		router.POST(adminRouter, "/deleteTag", s.tagDomain.Delete)
	}
}
