package response

import (
	"time"

	"marketplace-booking/internal/data/entity"
)

type ReviewResponse struct {
	ID        string    `json:"id"`
	ServiceID string    `json:"service_id"`
	ClientID  string    `json:"client_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID.String(),
		ServiceID: review.ServiceID.String(),
		ClientID:  review.ClientID.String(),
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}

func ReviewsToResponse(reviews []*entity.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, ReviewToResponse(review))
	}
	return out
}
