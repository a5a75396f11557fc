package controllers

import (
	"context"
	"strconv"

	"edu-store/config"
	"edu-store/models"

	"github.com/gin-gonic/gin"
)

type CartController struct{}

// @Summary Get cart
// @Description Get the authenticated user's cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string][]models.ApiCartItem
// @Router /api/cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID := c.GetInt("user_id")

	rows, err := config.DB.Query(context.Background(),
		`SELECT p.id, p.name, p.price, ci.quantity, p.avatar, COALESCE(cat.name, ''), p.unit
		 FROM cart_items ci
		 JOIN products p ON ci.product_id = p.id
		 LEFT JOIN categories cat ON p.category_id = cat.id
		 WHERE ci.user_id = $1
		 ORDER BY ci.created_at`,
		userID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to load cart"})
		return
	}
	defer rows.Close()

	items := []models.ApiCartItem{}
	for rows.Next() {
		var item models.ApiCartItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.Avatar, &item.Category, &item.Unit); err != nil {
			continue
		}
		items = append(items, item)
	}

	c.JSON(200, gin.H{"cart": items})
}

// @Summary Add item to cart
// @Description Add a product to the cart; quantities aggregate per product
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.AddCartItemRequest true "Item"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /api/cart/add [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var exists int
	config.DB.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM products WHERE id = $1 AND is_active = true", req.ProductID).Scan(&exists)
	if exists == 0 {
		c.JSON(404, gin.H{"success": false, "message": "Product not found"})
		return
	}

	_, err := config.DB.Exec(context.Background(),
		`INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
		 VALUES ($1, $2, $3, now(), now())
		 ON CONFLICT (user_id, product_id)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()`,
		userID, req.ProductID, req.Quantity)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to add item to cart"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Item added to cart"})
}

// @Summary Remove item from cart
// @Description Remove the cart line matching the product id
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Router /api/cart/remove/{id} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	userID := c.GetInt("user_id")

	productID, _ := strconv.Atoi(c.Param("id"))
	if productID <= 0 {
		c.JSON(400, gin.H{"success": false, "message": "Invalid product ID"})
		return
	}

	_, err := config.DB.Exec(context.Background(),
		"DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2",
		userID, productID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to remove item from cart"})
		return
	}

	// removing a line that is not there is fine
	c.JSON(200, gin.H{"success": true, "message": "Item removed from cart"})
}

// @Summary Update cart item quantity
// @Description Set the quantity of a cart line; zero or less removes it
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body models.UpdateCartItemRequest true "Quantity"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /api/cart/{id} [put]
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	userID := c.GetInt("user_id")

	productID, _ := strconv.Atoi(c.Param("id"))
	if productID <= 0 {
		c.JSON(400, gin.H{"success": false, "message": "Invalid product ID"})
		return
	}

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if req.Quantity <= 0 {
		_, err := config.DB.Exec(context.Background(),
			"DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2",
			userID, productID)
		if err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Failed to update cart"})
			return
		}
		c.JSON(200, gin.H{"success": true, "message": "Item removed from cart"})
		return
	}

	tag, err := config.DB.Exec(context.Background(),
		"UPDATE cart_items SET quantity = $1, updated_at = now() WHERE user_id = $2 AND product_id = $3",
		req.Quantity, userID, productID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to update cart"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(404, gin.H{"success": false, "message": "Cart item not found"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Cart updated"})
}
