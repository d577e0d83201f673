package shared

import (
	"time"

	"nevado_reviews/internal/domain"
)

// DefaultReviews returns the curated sample reviews. They seed empty
// databases (cmd/seed) and back the list endpoint when the store is
// unreachable, so the marketing site never renders an empty carousel.
func DefaultReviews() []domain.Review {
	now := time.Now().UTC()
	str := func(s string) *string { return &s }

	return []domain.Review{
		{
			ID:           "seed-guilherme",
			GuestName:    "Guilherme",
			Country:      "Brasil",
			Flag:         "🇧🇷",
			Rating:       5,
			ReviewText:   "El propietario y el ama de llaves fueron simplemente increíbles. La casa es hermosa, limpia, cálida, sin detalles a resaltar. Podría vivir tranquilo en este lugar. Gracias a todos.",
			Platform:     domain.PlatformBooking,
			StayDate:     str("2024-12-15"),
			StayDuration: str("3 noches"),
			GuestCount:   4,
			HostResponse: str("Muchas gracias Guilherme por tu hermosa reseña. Fue un placer tenerte como huésped. ¡Esperamos verte nuevamente!"),
			CreatedAt:    now,
			UpdatedAt:    now,
			IsActive:     true,
		},
		{
			ID:           "seed-cifuentes",
			GuestName:    "Cifuentes",
			Country:      "Chile",
			Flag:         "🇨🇱",
			Rating:       5,
			ReviewText:   "Una cabaña realmente impecable en todo sentido, muy confortable y buena respuesta del propietario a las consultas y requerimientos. Recomiendo totalmente la cabaña!",
			Platform:     domain.PlatformAirbnb,
			StayDate:     str("2024-12-10"),
			StayDuration: str("2 noches"),
			GuestCount:   6,
			CreatedAt:    now,
			UpdatedAt:    now,
			IsActive:     true,
		},
	}
}
