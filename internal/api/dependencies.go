package api

import (
	"farhold/quarterdeck/internal/auth"
	"farhold/quarterdeck/internal/common"
	"farhold/quarterdeck/internal/db"
	"farhold/quarterdeck/internal/db/repositories"
	"farhold/quarterdeck/internal/jobs"
	"farhold/quarterdeck/internal/metrics"
	"farhold/quarterdeck/internal/providers"
	"farhold/quarterdeck/internal/services"
)

type Repositories struct {
	User         *repositories.UserRepository
	Member       *repositories.MemberRepository
	Catalog      *repositories.CatalogRepository
	Organization *repositories.OrganizationRepository
	Blog         *repositories.BlogRepository
	Item         *repositories.ItemRepository
	Fleet        *repositories.FleetRepository
	Squadron     *repositories.SquadronRepository
	Contact      *repositories.ContactRepository
}

type Services struct {
	Cache       common.CacheInterface
	StarCitizen *providers.StarCitizenProvider
	Discord     *providers.DiscordProvider
	Tokens      *auth.TokenService
	Auth        *services.AuthService
	Identity    *services.IdentityService
	AdminUser   *services.AdminUserService
	Content     *services.ContentService
	Fleet       *services.FleetService
	Squadron    *services.SquadronService
}

type Jobs struct {
	ShipSync   *jobs.ShipSyncJob
	OrgSync    *jobs.OrgSyncJob
	MemberSync *jobs.MemberSyncJob
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Jobs     *Jobs
}

func InitDependencies(metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		User:         repositories.NewUserRepository(db.AuthDB),
		Member:       repositories.NewMemberRepository(db.AppDB),
		Catalog:      repositories.NewCatalogRepository(db.AppDB),
		Organization: repositories.NewOrganizationRepository(db.AppDB),
		Blog:         repositories.NewBlogRepository(db.AppDB),
		Item:         repositories.NewItemRepository(db.AppDB),
		Fleet:        repositories.NewFleetRepository(db.AppDB),
		Squadron:     repositories.NewSquadronRepository(db.AppDB),
		Contact:      repositories.NewContactRepository(db.AppDB),
	}

	cacheSvc := common.NewCacheFromEnv()
	scProvider := providers.NewStarCitizenProvider(cacheSvc)
	discordProvider := providers.NewDiscordProvider()

	tokenSvc, err := auth.NewTokenServiceFromEnv()
	if err != nil {
		return nil, err
	}

	svcs := &Services{
		Cache:       cacheSvc,
		StarCitizen: scProvider,
		Discord:     discordProvider,
		Tokens:      tokenSvc,
		Auth:        services.NewAuthService(repos.User, tokenSvc),
		Identity:    services.NewIdentityService(repos.User, repos.Member, discordProvider, tokenSvc),
		AdminUser:   services.NewAdminUserService(repos.User, repos.Member),
		Content:     services.NewContentService(repos.Blog, repos.Item),
		Fleet:       services.NewFleetService(repos.Fleet, repos.Catalog),
		Squadron:    services.NewSquadronService(repos.Squadron),
	}

	syncJobs := &Jobs{
		ShipSync:   jobs.NewShipSyncJob(scProvider, db.AppDB, metricsReg),
		OrgSync:    jobs.NewOrgSyncJob(scProvider, db.AppDB, metricsReg),
		MemberSync: jobs.NewMemberSyncJob(scProvider, db.AppDB, metricsReg),
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Jobs:     syncJobs,
	}, nil
}
