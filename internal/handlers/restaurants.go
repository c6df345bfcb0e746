package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rotino/internal/models"
	"rotino/internal/pricing"
	"rotino/internal/repository"
)

// ListRestaurants serves the browse screen with optional cuisine filter and
// name search.
func ListRestaurants(catalog *repository.CatalogRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /restaurants"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		restaurants, total, err := catalog.ListRestaurants(ctx, c.Query("cuisine"), c.Query("search"), page, limit)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "restaurants could not be fetched")
			return
		}

		formatted := make([]gin.H, 0, len(restaurants))
		for _, restaurant := range restaurants {
			formatted = append(formatted, restaurantView(restaurant))
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"restaurants": formatted,
			"pagination": gin.H{
				"current": page,
				"count":   len(restaurants),
				"total":   total,
			},
		})
	}
}

// GetRestaurant returns one restaurant together with its available menu,
// grouped by category.
func GetRestaurant(catalog *repository.CatalogRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /restaurants/:id"
		defer handlePanic(c, route)

		restaurantID, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid restaurant id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		restaurant, err := catalog.Restaurant(ctx, restaurantID)
		if err != nil || !restaurant.Orderable() {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Restaurant not found or not available"})
			return
		}

		menu, err := catalog.MenuForRestaurant(ctx, restaurantID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "menu could not be fetched")
			return
		}

		grouped := make(map[string][]models.MenuItem)
		for _, item := range menu {
			grouped[item.Category] = append(grouped[item.Category], item)
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"restaurant": restaurantView(*restaurant),
			"menu":       grouped,
		})
	}
}

// GetMenuItem returns a single menu item with its customization groups.
func GetMenuItem(catalog *repository.CatalogRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /menu/item/:itemId"
		defer handlePanic(c, route)

		itemID, err := objectIDParam(c, "itemId")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid menu item id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		item, err := catalog.MenuItem(ctx, itemID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Menu item not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"item":           item,
			"formattedPrice": pricing.FormatPaise(item.Price),
		})
	}
}

func restaurantView(restaurant models.Restaurant) gin.H {
	deliveryFee := pricing.FormatPaise(restaurant.DeliveryFee)
	if restaurant.DeliveryFee == 0 {
		deliveryFee = "Free"
	}
	return gin.H{
		"id":                   restaurant.ID.Hex(),
		"name":                 restaurant.Name,
		"description":          restaurant.Description,
		"cuisine":              restaurant.Cuisine,
		"image":                restaurant.Image,
		"rating":               restaurant.Rating,
		"deliveryTime":         restaurant.DeliveryTime,
		"deliveryFee":          restaurant.DeliveryFee,
		"formattedDeliveryFee": deliveryFee,
		"minimumOrder":         restaurant.MinimumOrder,
		"formattedMinimum":     pricing.FormatPaise(restaurant.MinimumOrder),
		"isFeatured":           restaurant.IsFeatured,
	}
}
