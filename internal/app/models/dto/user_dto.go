package dto

import (
	"time"

	"github.com/gradlink/alumni/internal/app/models"
)

// UserSummary is the compact user shape embedded in other responses
type UserSummary struct {
	ID                int64   `json:"id" example:"1"`
	Username          string  `json:"username" example:"jane"`
	FullName          string  `json:"fullName" example:"Jane Doe"`
	RoleType          string  `json:"roleType" example:"alumni"`
	ProfilePictureURL *string `json:"profilePictureUrl,omitempty"`
}

// UserResponse represents the account fields of a user
type UserResponse struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	Username          string    `json:"username"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	RoleType          string    `json:"roleType"`
	IsVerified        bool      `json:"isVerified"`
	Bio               string    `json:"bio"`
	Phone             string    `json:"phone,omitempty"`
	Location          string    `json:"location"`
	Website           string    `json:"website"`
	LinkedInURL       string    `json:"linkedinUrl"`
	ProfilePictureURL *string   `json:"profilePictureUrl,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ProfileResponse represents the academic and career profile
type ProfileResponse struct {
	University         *UniversityResponse `json:"university,omitempty"`
	GraduationYear     *int                `json:"graduationYear,omitempty"`
	Degree             string              `json:"degree"`
	Major              string              `json:"major"`
	CurrentPosition    string              `json:"currentPosition"`
	CurrentCompany     string              `json:"currentCompany"`
	Industry           string              `json:"industry"`
	ExperienceYears    int                 `json:"experienceYears"`
	Skills             []string            `json:"skills"`
	Interests          []string            `json:"interests"`
	IsMentor           bool                `json:"isMentor"`
	IsLookingForMentor bool                `json:"isLookingForMentor"`
	IsOpenToNetworking bool                `json:"isOpenToNetworking"`
}

// DirectorySettingsResponse is how the user appears in the directory
type DirectorySettingsResponse struct {
	IsPublic     bool   `json:"isPublic"`
	AllowContact bool   `json:"allowContact"`
	Featured     bool   `json:"featured"`
	Achievements string `json:"achievements"`
}

// MeResponse is the signed-in user's full account
type MeResponse struct {
	User      UserResponse              `json:"user"`
	Profile   ProfileResponse           `json:"profile"`
	Directory DirectorySettingsResponse `json:"directory"`
}

// PublicUserResponse is another member's profile as seen by a signed-in user
type PublicUserResponse struct {
	User             UserResponse    `json:"user"`
	Profile          ProfileResponse `json:"profile"`
	ConnectionStatus string          `json:"connectionStatus,omitempty" example:"accepted"`
}

// UniversityResponse represents a university
type UniversityResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Location        string  `json:"location"`
	Website         string  `json:"website"`
	LogoURL         *string `json:"logoUrl,omitempty"`
	EstablishedYear *int    `json:"establishedYear,omitempty"`
}

// UpdateProfileRequest updates the personal fields, the profile and the directory settings together.
// The role is deliberately absent.
type UpdateProfileRequest struct {
	FirstName   string `json:"firstName" binding:"required,max=150"`
	LastName    string `json:"lastName" binding:"required,max=150"`
	Bio         string `json:"bio" binding:"max=2000"`
	Phone       string `json:"phone" binding:"max=20"`
	Location    string `json:"location" binding:"max=100"`
	Website     string `json:"website" binding:"omitempty,url,max=255"`
	LinkedInURL string `json:"linkedinUrl" binding:"omitempty,url,max=255"`

	UniversityID       *int64   `json:"universityId" binding:"omitempty,min=1"`
	GraduationYear     *int     `json:"graduationYear" binding:"omitempty,min=1900,max=2100"`
	Degree             string   `json:"degree" binding:"max=100"`
	Major              string   `json:"major" binding:"max=100"`
	CurrentPosition    string   `json:"currentPosition" binding:"max=100"`
	CurrentCompany     string   `json:"currentCompany" binding:"max=100"`
	Industry           string   `json:"industry" binding:"max=100"`
	ExperienceYears    int      `json:"experienceYears" binding:"min=0,max=80"`
	Skills             []string `json:"skills" binding:"max=50,dive,max=50"`
	Interests          []string `json:"interests" binding:"max=50,dive,max=50"`
	IsMentor           bool     `json:"isMentor"`
	IsLookingForMentor bool     `json:"isLookingForMentor"`
	IsOpenToNetworking bool     `json:"isOpenToNetworking"`

	IsPublic     *bool  `json:"isPublic"`
	AllowContact *bool  `json:"allowContact"`
	Achievements string `json:"achievements" binding:"max=2000"`
}

// DeleteAccountRequest confirms account deletion with the current password
type DeleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

// ProfilePictureResponse carries the URL of an uploaded picture
type ProfilePictureResponse struct {
	ProfilePictureURL string `json:"profilePictureUrl"`
}

// FromUserSummary converts a user into its compact shape; nil stays nil
func FromUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:                u.ID,
		Username:          u.Username,
		FullName:          u.FullName(),
		RoleType:          string(u.RoleType),
		ProfilePictureURL: u.ProfilePictureURL,
	}
}

// FromUser converts a user model into a UserResponse
func FromUser(u *models.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		Email:             u.Email,
		Username:          u.Username,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		RoleType:          string(u.RoleType),
		IsVerified:        u.IsVerified,
		Bio:               u.Bio,
		Phone:             u.Phone,
		Location:          u.Location,
		Website:           u.Website,
		LinkedInURL:       u.LinkedInURL,
		ProfilePictureURL: u.ProfilePictureURL,
		CreatedAt:         u.CreatedAt,
	}
}

// FromProfile converts a profile model into a ProfileResponse
func FromProfile(p *models.UserProfile) ProfileResponse {
	resp := ProfileResponse{
		GraduationYear:     p.GraduationYear,
		Degree:             p.Degree,
		Major:              p.Major,
		CurrentPosition:    p.CurrentPosition,
		CurrentCompany:     p.CurrentCompany,
		Industry:           p.Industry,
		ExperienceYears:    p.ExperienceYears,
		Skills:             nonNil(p.Skills),
		Interests:          nonNil(p.Interests),
		IsMentor:           p.IsMentor,
		IsLookingForMentor: p.IsLookingForMentor,
		IsOpenToNetworking: p.IsOpenToNetworking,
	}
	if p.University != nil {
		u := FromUniversity(p.University)
		resp.University = &u
	}
	return resp
}

// FromDirectoryEntry converts directory settings into their response shape
func FromDirectoryEntry(e *models.DirectoryEntry) DirectorySettingsResponse {
	return DirectorySettingsResponse{
		IsPublic:     e.IsPublic,
		AllowContact: e.AllowContact,
		Featured:     e.Featured,
		Achievements: e.Achievements,
	}
}

// FromUniversity converts a university model
func FromUniversity(u *models.University) UniversityResponse {
	return UniversityResponse{
		ID:              u.ID,
		Name:            u.Name,
		Location:        u.Location,
		Website:         u.Website,
		LogoURL:         u.LogoURL,
		EstablishedYear: u.EstablishedYear,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
