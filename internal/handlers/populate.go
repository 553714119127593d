package handlers

import (
	"context"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/dto"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/repository"
)

// authorSummary is the author shown with a review; nil authors stay null.
func authorSummary(u *models.User) any {
	if u == nil {
		return nil
	}
	return dto.UserSummary{ID: u.ID, Name: u.Name, Photo: u.Photo}
}

func reviewResponses(reviews []repository.Authored) []dto.ReviewResponse {
	out := make([]dto.ReviewResponse, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, dto.ReviewResponse{Review: rv.Review, User: authorSummary(rv.Author)})
	}
	return out
}

// guideSummaries resolves guide ids in their listed order, skipping users
// that no longer exist.
func guideSummaries(ctx context.Context, users *repository.Users, ids []string) ([]dto.UserSummary, error) {
	found, err := users.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := found[id]; ok {
			out = append(out, dto.UserSummary{ID: u.ID, Name: u.Name, Photo: u.Photo, Role: u.Role, Email: u.Email})
		}
	}
	return out, nil
}

// populateTour builds the single-tour response with guides and reviews.
func populateTour(ctx context.Context, t *models.Tour, users *repository.Users, reviews *repository.Reviews) (dto.TourResponse, error) {
	resp := dto.NewTourResponse(t)

	guides, err := guideSummaries(ctx, users, t.Guides)
	if err != nil {
		return resp, err
	}
	resp.Guides = guides

	list, err := reviews.ForTour(ctx, t.ID)
	if err != nil {
		return resp, err
	}
	authored, err := reviews.WithAuthors(ctx, list)
	if err != nil {
		return resp, err
	}
	resp.Reviews = reviewResponses(authored)
	return resp, nil
}
