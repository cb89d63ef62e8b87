package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/app/models/dto"
	"github.com/gradlink/alumni/internal/pkg/apperrors"
	"github.com/gradlink/alumni/internal/pkg/auth"
	"github.com/gradlink/alumni/internal/pkg/filestorage"
	"github.com/rs/zerolog"
)

// AccountService defines registration, sign-in and the user's own account
type AccountService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	GetMe(ctx context.Context, userID int64) (*dto.MeResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.MeResponse, error)
	UpdateProfilePicture(ctx context.Context, userID int64, fileHeader *multipart.FileHeader) (*dto.ProfilePictureResponse, error)
	DeleteAccount(ctx context.Context, userID int64, password string) error
	GetUser(ctx context.Context, viewerID, userID int64) (*dto.PublicUserResponse, error)
}

type accountServiceImpl struct {
	users       UserStore
	profiles    ProfileStore
	connections ConnectionStore
	files       FileStore
	jwtService  *auth.JWTService
	logger      zerolog.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	users UserStore,
	profiles ProfileStore,
	connections ConnectionStore,
	files FileStore,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) AccountService {
	return &accountServiceImpl{
		users:       users,
		profiles:    profiles,
		connections: connections,
		files:       files,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// Register creates the account, its empty profile and a public directory entry
func (s *accountServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if !req.RoleType.Valid() {
		return nil, apperrors.NewBadRequestError("unknown role type")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Username:  strings.TrimSpace(req.Username),
		Password:  hashedPassword,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		RoleType:  req.RoleType,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.RoleType)).Msg("User registered")
	return s.authResponse(user)
}

// Login authenticates a user
func (s *accountServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.authResponse(user)
}

// RefreshToken issues a new token pair from a valid refresh token
func (s *accountServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.NewCustomError(apperrors.ErrTokenExpired, "refresh token has expired")
		}
		return nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "invalid refresh token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			// The account was deleted after the token was issued
			return nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "invalid refresh token")
		}
		return nil, err
	}

	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}
	token := tokenResponse(pair)
	return &token, nil
}

// GetMe returns the caller's account, creating the profile on first access
func (s *accountServiceImpl) GetMe(ctx context.Context, userID int64) (*dto.MeResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	entry, err := s.profiles.GetDirectoryEntry(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.MeResponse{
		User:      dto.FromUser(user),
		Profile:   dto.FromProfile(profile),
		Directory: dto.FromDirectoryEntry(entry),
	}, nil
}

// UpdateProfile writes the personal fields, the profile and the directory settings
func (s *accountServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.MeResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.Bio = req.Bio
	user.Phone = req.Phone
	user.Location = req.Location
	user.Website = req.Website
	user.LinkedInURL = req.LinkedInURL
	if err := s.users.UpdatePersonal(ctx, user); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.UniversityID = req.UniversityID
	profile.GraduationYear = req.GraduationYear
	profile.Degree = req.Degree
	profile.Major = req.Major
	profile.CurrentPosition = req.CurrentPosition
	profile.CurrentCompany = req.CurrentCompany
	profile.Industry = req.Industry
	profile.ExperienceYears = req.ExperienceYears
	profile.Skills = cleanList(req.Skills)
	profile.Interests = cleanList(req.Interests)
	profile.IsMentor = req.IsMentor
	profile.IsLookingForMentor = req.IsLookingForMentor
	profile.IsOpenToNetworking = req.IsOpenToNetworking
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}

	entry, err := s.profiles.GetDirectoryEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.IsPublic != nil {
		entry.IsPublic = *req.IsPublic
	}
	if req.AllowContact != nil {
		entry.AllowContact = *req.AllowContact
	}
	entry.Achievements = req.Achievements
	if err := s.profiles.UpsertDirectoryEntry(ctx, entry); err != nil {
		return nil, err
	}

	return s.GetMe(ctx, userID)
}

// UpdateProfilePicture stores a new picture and removes the previous file
func (s *accountServiceImpl) UpdateProfilePicture(ctx context.Context, userID int64, fileHeader *multipart.FileHeader) (*dto.ProfilePictureResponse, error) {
	if fileHeader == nil {
		return nil, apperrors.NewBadRequestError("a picture file is required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.files.SaveFileWithPath(fileHeader, filestorage.ProfilePictureFolder, filestorage.ImagePolicy)
	if err != nil {
		if errors.Is(err, filestorage.ErrUnsupportedFile) {
			return nil, apperrors.NewBadRequestError(err.Error())
		}
		return nil, fmt.Errorf("failed to store profile picture: %w", err)
	}

	if err := s.users.UpdateProfilePicture(ctx, userID, url); err != nil {
		s.removeFile(url)
		return nil, err
	}

	if user.ProfilePictureURL != nil {
		s.removeFile(*user.ProfilePictureURL)
	}
	return &dto.ProfilePictureResponse{ProfilePictureURL: url}, nil
}

// DeleteAccount removes the user and everything they own after checking the password
func (s *accountServiceImpl) DeleteAccount(ctx context.Context, userID int64, password string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, password) {
		return apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "password is incorrect")
	}

	if err := s.users.DeleteCascade(ctx, userID); err != nil {
		return err
	}
	if user.ProfilePictureURL != nil {
		s.removeFile(*user.ProfilePictureURL)
	}

	s.logger.Info().Int64("userID", userID).Msg("Account deleted")
	return nil
}

// GetUser returns another member's profile. The phone number is only shown when the member allows contact.
func (s *accountServiceImpl) GetUser(ctx context.Context, viewerID, userID int64) (*dto.PublicUserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	entry, err := s.profiles.GetDirectoryEntry(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.PublicUserResponse{
		User:    dto.FromUser(user),
		Profile: dto.FromProfile(profile),
	}

	if viewerID != userID {
		resp.User.Email = ""
		if !entry.AllowContact {
			resp.User.Phone = ""
		}

		conn, err := s.connections.FindBetween(ctx, viewerID, userID)
		switch {
		case err == nil:
			resp.ConnectionStatus = string(conn.Status)
		case !errors.Is(err, apperrors.ErrResourceNotFound):
			return nil, err
		}
	}
	return resp, nil
}

func (s *accountServiceImpl) authResponse(user *models.User) (*dto.AuthResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token: tokenResponse(pair),
		User:  dto.FromUser(user),
	}, nil
}

func (s *accountServiceImpl) removeFile(url string) {
	if err := s.files.DeleteFile(url); err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("Failed to remove stored file")
	}
}

func tokenResponse(pair *auth.TokenPair) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken:           pair.AccessToken,
		TokenType:             "Bearer",
		ExpiresIn:             pair.ExpiresIn,
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresIn: pair.RefreshExpiresIn,
	}
}

// cleanList trims entries and drops empty and duplicate ones
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
