package services

import (
	"context"
	"strings"

	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/app/models/dto"
	"github.com/gradlink/alumni/internal/app/repositories"
	"github.com/rs/zerolog"
)

// DirectoryService lists the members of the network
type DirectoryService interface {
	Search(ctx context.Context, viewerID int64, query dto.DirectoryQuery, page, size int) (*dto.DirectoryListResponse, error)
	Filters(ctx context.Context) (*dto.DirectoryFiltersResponse, error)
	Mentors(ctx context.Context, viewerID int64, query dto.MentorQuery, page, size int) (*dto.DirectoryListResponse, error)
	Universities(ctx context.Context) ([]dto.UniversityResponse, error)
}

type directoryServiceImpl struct {
	directory    DirectoryStore
	universities UniversityStore
	logger       zerolog.Logger
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(directory DirectoryStore, universities UniversityStore, logger zerolog.Logger) DirectoryService {
	return &directoryServiceImpl{
		directory:    directory,
		universities: universities,
		logger:       logger,
	}
}

// Search lists public alumni and students, excluding the viewer
func (s *directoryServiceImpl) Search(ctx context.Context, viewerID int64, query dto.DirectoryQuery, page, size int) (*dto.DirectoryListResponse, error) {
	roles := []models.RoleType{models.RoleAlumni, models.RoleStudent}
	if query.UserType != "" {
		roles = []models.RoleType{models.RoleType(query.UserType)}
	}

	return s.list(ctx, repositories.DirectoryFilter{
		ViewerID:       viewerID,
		Search:         strings.TrimSpace(query.Search),
		UniversityID:   query.UniversityID,
		GraduationYear: query.GraduationYear,
		Roles:          roles,
		MentorsOnly:    query.IsMentor,
		Page:           pageOf(page, size),
	}, page, size)
}

// Mentors lists members who offer mentorship
func (s *directoryServiceImpl) Mentors(ctx context.Context, viewerID int64, query dto.MentorQuery, page, size int) (*dto.DirectoryListResponse, error) {
	return s.list(ctx, repositories.DirectoryFilter{
		ViewerID:    viewerID,
		Search:      strings.TrimSpace(query.Search),
		Industry:    strings.TrimSpace(query.Industry),
		MentorsOnly: true,
		Page:        pageOf(page, size),
	}, page, size)
}

func (s *directoryServiceImpl) list(ctx context.Context, filter repositories.DirectoryFilter, page, size int) (*dto.DirectoryListResponse, error) {
	members, total, err := s.directory.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.DirectoryListResponse{
		Members:    make([]dto.DirectoryMemberResponse, 0, len(members)),
		Pagination: paginationOf(total, page, size),
	}
	for i := range members {
		resp.Members = append(resp.Members, dto.FromMember(&members[i]))
	}
	return resp, nil
}

// Filters returns the values the directory can be narrowed by
func (s *directoryServiceImpl) Filters(ctx context.Context) (*dto.DirectoryFiltersResponse, error) {
	universities, err := s.Universities(ctx)
	if err != nil {
		return nil, err
	}
	years, err := s.directory.GraduationYears(ctx)
	if err != nil {
		return nil, err
	}
	industries, err := s.directory.Industries(ctx)
	if err != nil {
		return nil, err
	}

	if years == nil {
		years = []int{}
	}
	if industries == nil {
		industries = []string{}
	}
	return &dto.DirectoryFiltersResponse{
		Universities:    universities,
		GraduationYears: years,
		Industries:      industries,
	}, nil
}

// Universities lists all universities by name
func (s *directoryServiceImpl) Universities(ctx context.Context) ([]dto.UniversityResponse, error) {
	list, err := s.universities.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UniversityResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.FromUniversity(&list[i]))
	}
	return out, nil
}
