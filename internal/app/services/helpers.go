package services

import (
	"context"
	"fmt"

	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/app/models/dto"
	"github.com/gradlink/alumni/internal/app/repositories"
	"github.com/gradlink/alumni/internal/pkg/helpers"
)

// loadUsers fetches the distinct users behind ids in one query
func loadUsers(ctx context.Context, users UserStore, ids []int64) (map[int64]*models.User, error) {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == 0 {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	byID, err := users.FindByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return byID, nil
}

func pageOf(page, size int) repositories.Page {
	return repositories.Page{Number: page, Size: size}
}

func paginationOf(total int64, page, size int) dto.PaginationInfo {
	return helpers.NewPaginationInfo(total, page, size)
}
