package dto

import "github.com/gradlink/alumni/internal/app/models"

// DirectoryMemberResponse is one card in the alumni directory
type DirectoryMemberResponse struct {
	UserSummary
	Location        string   `json:"location"`
	UniversityID    *int64   `json:"universityId,omitempty"`
	GraduationYear  *int     `json:"graduationYear,omitempty"`
	Degree          string   `json:"degree"`
	Major           string   `json:"major"`
	CurrentPosition string   `json:"currentPosition"`
	CurrentCompany  string   `json:"currentCompany"`
	Industry        string   `json:"industry"`
	ExperienceYears int      `json:"experienceYears"`
	Skills          []string `json:"skills"`
	IsMentor        bool     `json:"isMentor"`
	IsVerified      bool     `json:"isVerified"`
}

// DirectoryListResponse is a page of directory members
type DirectoryListResponse struct {
	Members    []DirectoryMemberResponse `json:"members"`
	Pagination PaginationInfo            `json:"pagination"`
}

// DirectoryFiltersResponse lists the values the directory can be filtered by
type DirectoryFiltersResponse struct {
	Universities    []UniversityResponse `json:"universities"`
	GraduationYears []int                `json:"graduationYears"`
	Industries      []string             `json:"industries"`
}

// FromMember converts a directory row
func FromMember(m *models.Member) DirectoryMemberResponse {
	return DirectoryMemberResponse{
		UserSummary:     *FromUserSummary(&m.User),
		Location:        m.User.Location,
		UniversityID:    m.Profile.UniversityID,
		GraduationYear:  m.Profile.GraduationYear,
		Degree:          m.Profile.Degree,
		Major:           m.Profile.Major,
		CurrentPosition: m.Profile.CurrentPosition,
		CurrentCompany:  m.Profile.CurrentCompany,
		Industry:        m.Profile.Industry,
		ExperienceYears: m.Profile.ExperienceYears,
		Skills:          nonNil(m.Profile.Skills),
		IsMentor:        m.Profile.IsMentor,
		IsVerified:      m.User.IsVerified,
	}
}

// DirectoryQuery holds the directory filters from the query string.
// UserType defaults to both alumni and students.
type DirectoryQuery struct {
	Search         string `form:"search"`
	UniversityID   *int64 `form:"university" binding:"omitempty,min=1"`
	GraduationYear *int   `form:"graduation_year" binding:"omitempty,min=1900,max=2100"`
	UserType       string `form:"user_type" binding:"omitempty,oneof=alumni student"`
	IsMentor       bool   `form:"is_mentor"`
}

// MentorQuery filters the mentor listing
type MentorQuery struct {
	Search   string `form:"search"`
	Industry string `form:"industry"`
}
