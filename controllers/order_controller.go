package controllers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"edu-store/config"
	"edu-store/models"
	"edu-store/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct{}

func (ctrl *OrderController) getPaginationParams(c *gin.Context, defaultLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}

	offset = (page - 1) * limit
	return page, limit, offset
}

// @Summary Create order
// @Description Create an order from the submitted checkout payload. The whole order is one transaction: it is either fully created or not at all.
// @Tags Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateOrderRequest true "Order payload"
// @Success 201 {object} map[string]int
// @Failure 400 {object} models.ErrorResponse
// @Router /api/orders [post]
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	ctx := context.Background()
	userID := c.GetInt("user_id")

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid order payload", "error": err.Error()})
		return
	}

	subtotal := 0
	for _, item := range req.Items {
		subtotal += item.Price * item.Quantity
	}
	total := subtotal + req.DeliveryFee

	paymentStatus := strings.TrimSpace(req.PaymentStatus)
	if paymentStatus == "" {
		paymentStatus = "paid"
	}

	tx, err := config.DB.Begin(ctx)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to start transaction"})
		return
	}
	defer tx.Rollback(ctx)

	orderNum := fmt.Sprintf("ORD-%d", time.Now().Unix())
	now := time.Now()

	var orderID int
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (order_number, user_id, full_name, email, phone, status, subtotal, delivery_fee, total, payment_method, payment_status, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,'pending',$6,$7,$8,$9,$10,$11,$12)
		 RETURNING id`,
		orderNum, userID, req.FullName, req.Email, req.Phone,
		subtotal, req.DeliveryFee, total, req.PaymentMethod, paymentStatus, now, now).Scan(&orderID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": fmt.Sprintf("Failed to create order: %v", err)})
		return
	}

	addr := req.Address[0]
	_, err = tx.Exec(ctx,
		`INSERT INTO order_addresses (order_id, street, city, district, postal_code, lat, lng, instructions)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		orderID, addr.Street, addr.City, addr.District, addr.PostalCode,
		addr.Coordinates.Lat, addr.Coordinates.Lng, addr.Instructions)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": fmt.Sprintf("Failed to create order address: %v", err)})
		return
	}

	for _, item := range req.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price, created_at)
			 VALUES ($1,$2,$3,$4,$5)`,
			orderID, item.ProductID, item.Quantity, item.Price, now)
		if err != nil {
			c.JSON(500, gin.H{"success": false, "message": fmt.Sprintf("Failed to create order items: %v", err)})
			return
		}
	}

	if err = tx.Commit(ctx); err != nil {
		c.JSON(500, gin.H{"success": false, "message": fmt.Sprintf("Failed to commit: %v", err)})
		return
	}

	// confirmation mail is best effort; the order stands either way
	go func(email, orderNum string, total int) {
		mailer, err := services.NewEmailService()
		if err != nil {
			return
		}
		if err := mailer.SendOrderConfirmationEmail(email, orderNum, total); err != nil {
			log.Println("Failed to send order confirmation:", err)
		}
	}(req.Email, orderNum, total)

	c.JSON(201, gin.H{"order_id": orderID})
}

// @Summary Get all orders
// @Description Get all orders with pagination (Admin)
// @Tags Admin - Orders
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "Filter by status"
// @Success 200 {object} models.PaginationResponse
// @Router /admin/orders [get]
func (ctrl *OrderController) GetAllOrders(c *gin.Context) {
	page, limit, offset := ctrl.getPaginationParams(c, 10)
	status := c.Query("status")

	countQuery := "SELECT COUNT(*) FROM orders"
	query := `SELECT id, order_number, user_id, full_name, email, phone, status, subtotal, delivery_fee, total, payment_method, payment_status, created_at, updated_at
	          FROM orders`
	args := []interface{}{}

	if status != "" && status != "All" {
		countQuery += " WHERE status = $1"
		query += " WHERE status = $1"
		args = append(args, status)
	}

	var total int
	if err := config.DB.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to count orders"})
		return
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := config.DB.Query(context.Background(), query, args...)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to load orders"})
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.FullName, &o.Email, &o.Phone, &o.Status,
			&o.Subtotal, &o.DeliveryFee, &o.Total, &o.PaymentMethod, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt); err != nil {
			continue
		}
		orders = append(orders, o)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	c.JSON(200, models.PaginationResponse{
		Success: true,
		Message: "Orders retrieved successfully",
		Data:    orders,
		Meta: models.MetaData{
			Page:       page,
			Limit:      limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	})
}

// @Summary Get order by ID
// @Description Get order details including lines and address (Admin)
// @Tags Admin - Orders
// @Security BearerAuth
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/orders/{id} [get]
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	if id <= 0 {
		c.JSON(400, gin.H{"success": false, "message": "Invalid order ID"})
		return
	}

	var o models.Order
	err := config.DB.QueryRow(context.Background(),
		`SELECT id, order_number, user_id, full_name, email, phone, status, subtotal, delivery_fee, total, payment_method, payment_status, created_at, updated_at
		 FROM orders WHERE id = $1`, id).Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.FullName, &o.Email, &o.Phone, &o.Status,
		&o.Subtotal, &o.DeliveryFee, &o.Total, &o.PaymentMethod, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		c.JSON(404, gin.H{"success": false, "message": "Order not found"})
		return
	}

	items := []models.OrderItem{}
	rows, err := config.DB.Query(context.Background(),
		"SELECT id, order_id, product_id, quantity, price FROM order_items WHERE order_id = $1", id)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var item models.OrderItem
			if rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price) == nil {
				items = append(items, item)
			}
		}
	}

	c.JSON(200, gin.H{
		"success": true,
		"message": "Order retrieved successfully",
		"data": gin.H{
			"order": o,
			"items": items,
		},
	})
}

// @Summary Update order status
// @Description Update order status (Admin)
// @Tags Admin - Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Response
// @Router /admin/orders/{id}/status [patch]
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	if id <= 0 {
		c.JSON(400, gin.H{"success": false, "message": "Invalid order ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Status is required"})
		return
	}

	tag, err := config.DB.Exec(context.Background(),
		"UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3",
		strings.TrimSpace(req.Status), time.Now(), id)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to update order status"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(404, gin.H{"success": false, "message": "Order not found"})
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"message": "Order status updated successfully",
		"data": gin.H{
			"id":     id,
			"status": strings.TrimSpace(req.Status),
		},
	})
}
