package services

import (
	"context"
	"errors"
	"fmt"

	"farhold/quarterdeck/internal/auth"
	"farhold/quarterdeck/internal/constants"
	"farhold/quarterdeck/internal/db/repositories"
	"farhold/quarterdeck/internal/logging"
	"farhold/quarterdeck/internal/models/dtos"
	gormModels "farhold/quarterdeck/internal/models/gorm"
	"farhold/quarterdeck/internal/providers"
)

// ErrAccountDisabled rejects OAuth logins on deactivated accounts. Handlers
// surface it with the same generic 401 as any other auth failure.
var ErrAccountDisabled = errors.New("account is disabled")

// IdentityService reconciles Discord identities into the dual store: the
// auth-scope account and the app-scope member profile, both keyed by
// discord_id.
type IdentityService struct {
	users   *repositories.UserRepository
	members *repositories.MemberRepository
	discord *providers.DiscordProvider
	tokens  *auth.TokenService
}

// NewIdentityService creates a new identity service
func NewIdentityService(
	users *repositories.UserRepository,
	members *repositories.MemberRepository,
	discord *providers.DiscordProvider,
	tokens *auth.TokenService,
) *IdentityService {
	return &IdentityService{
		users:   users,
		members: members,
		discord: discord,
		tokens:  tokens,
	}
}

// HandleCallback finishes the OAuth flow: exchanges the code, fetches the
// Discord profile, reconciles both stores, and issues a session token.
func (s *IdentityService) HandleCallback(ctx context.Context, code string) (*gormModels.User, string, error) {
	token, err := s.discord.ExchangeCode(ctx, code)
	if err != nil {
		return nil, "", err
	}

	discordUser, err := s.discord.FetchUser(ctx, token.AccessToken)
	if err != nil {
		return nil, "", err
	}

	user, err := s.reconcileAccount(ctx, discordUser)
	if err != nil {
		return nil, "", err
	}

	if err := s.reconcileProfile(ctx, discordUser); err != nil {
		// The account half committed; surface the failure rather than
		// leaving it silent
		return nil, "", err
	}

	session, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		logging.Warn("Failed to record last login", "user_id", user.ID, "error", err)
	}

	return user, session, nil
}

// reconcileAccount upserts the auth-scope account keyed by discord_id.
func (s *IdentityService) reconcileAccount(ctx context.Context, discordUser *dtos.DiscordUser) (*gormModels.User, error) {
	user, err := s.users.FindByDiscordID(ctx, discordUser.ID)
	if err != nil {
		return nil, err
	}

	if user != nil {
		if !user.IsActive {
			return nil, ErrAccountDisabled
		}
		user.Discriminator = strPtrOrNil(discordUser.Discriminator)
		user.Avatar = discordUser.Avatar
		if discordUser.Email != nil && *discordUser.Email != "" {
			user.Email = discordUser.Email
		}
		if err := s.users.Save(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	username, err := s.pickUsername(ctx, discordUser)
	if err != nil {
		return nil, err
	}

	discordID := discordUser.ID
	user = &gormModels.User{
		DiscordID:     &discordID,
		Username:      username,
		Discriminator: strPtrOrNil(discordUser.Discriminator),
		Avatar:        discordUser.Avatar,
		Email:         discordUser.Email,
		Role:          constants.RoleMember,
		IsActive:      true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	logging.Info("Created account from Discord identity", "discord_id", discordID, "username", username)
	return user, nil
}

// pickUsername keeps the Discord username when free, otherwise suffixes the
// snowflake to stay unique.
func (s *IdentityService) pickUsername(ctx context.Context, discordUser *dtos.DiscordUser) (string, error) {
	existing, err := s.users.FindByUsername(ctx, discordUser.Username)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return discordUser.Username, nil
	}
	return fmt.Sprintf("%s_%s", discordUser.Username, discordUser.ID), nil
}

// reconcileProfile upserts the app-scope member profile keyed by discord_id.
func (s *IdentityService) reconcileProfile(ctx context.Context, discordUser *dtos.DiscordUser) error {
	displayName := discordUser.Username
	if discordUser.GlobalName != nil && *discordUser.GlobalName != "" {
		displayName = *discordUser.GlobalName
	}

	member := &gormModels.Member{
		DiscordID:   discordUser.ID,
		DisplayName: displayName,
		AvatarURL:   avatarURL(discordUser),
		Rank:        constants.RoleMember.String(),
	}
	return s.members.Upsert(ctx, member)
}

// ReconcileProfiles is the repair pass: every Discord-linked account gets a
// member profile created if one went missing. Returns the number repaired.
func (s *IdentityService) ReconcileProfiles(ctx context.Context) (int, error) {
	users, err := s.users.ListDiscordLinked(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, user := range users {
		if user.DiscordID == nil {
			continue
		}
		profile, err := s.members.FindByDiscordID(ctx, *user.DiscordID)
		if err != nil {
			return repaired, err
		}
		if profile != nil {
			continue
		}

		member := &gormModels.Member{
			DiscordID:   *user.DiscordID,
			DisplayName: user.Username,
			Rank:        user.Role.String(),
		}
		if err := s.members.Upsert(ctx, member); err != nil {
			return repaired, err
		}
		repaired++
		logging.Info("Repaired missing member profile", "discord_id", *user.DiscordID)
	}
	return repaired, nil
}

func avatarURL(discordUser *dtos.DiscordUser) *string {
	if discordUser.Avatar == nil || *discordUser.Avatar == "" {
		return nil
	}
	url := fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", discordUser.ID, *discordUser.Avatar)
	return &url
}

func strPtrOrNil(s string) *string {
	if s == "" || s == "0" {
		return nil
	}
	return &s
}
