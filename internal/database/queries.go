package database

// Catalog queries
const (
	ListMenusSQL = `
		SELECT id, name, COALESCE(description, ''), price, COALESCE(image_url, ''), stock
		FROM menus
		ORDER BY id ASC`

	GetMenuSQL = `
		SELECT id, name, COALESCE(description, ''), price, COALESCE(image_url, ''), stock
		FROM menus WHERE id = $1`

	ListAllOptionsSQL = `
		SELECT id, menu_id, name, price
		FROM options
		ORDER BY menu_id ASC, id ASC`

	ListMenuOptionsSQL = `
		SELECT id, menu_id, name, price
		FROM options
		WHERE menu_id = $1
		ORDER BY id ASC`

	UpdateMenuStockSQL = `
		UPDATE menus SET stock = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING stock`

	LockMenuStockSQL = `
		SELECT stock FROM menus WHERE id = $1 FOR UPDATE`

	DecrementMenuStockSQL = `
		UPDATE menus SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2`
)

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (status, total_amount)
		VALUES ($1, $2)
		RETURNING id`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, menu_id, quantity, unit_price, options)
		VALUES ($1, $2, $3, $4, $5)`

	GetOrderSQL = `
		SELECT id, order_time, status, total_amount
		FROM orders WHERE id = $1`

	ListOrdersSQL = `
		SELECT id, order_time, status, total_amount
		FROM orders
		ORDER BY order_time DESC, id DESC`

	// Menu names are resolved live through the weak menu reference; price and
	// options on the item row stay as order-time snapshots.
	ListOrderItemsSQL = `
		SELECT oi.id, oi.order_id, oi.menu_id, oi.quantity, oi.unit_price, oi.options,
			   COALESCE(m.name, 'Unknown menu')
		FROM order_items oi
		LEFT JOIN menus m ON m.id = oi.menu_id
		WHERE oi.order_id = $1
		ORDER BY oi.id ASC`

	ListAllOrderItemsSQL = `
		SELECT oi.id, oi.order_id, oi.menu_id, oi.quantity, oi.unit_price, oi.options,
			   COALESCE(m.name, 'Unknown menu')
		FROM order_items oi
		LEFT JOIN menus m ON m.id = oi.menu_id
		ORDER BY oi.order_id DESC, oi.id ASC`

	LockOrderStatusSQL = `
		SELECT status FROM orders WHERE id = $1 FOR UPDATE`

	UpdateOrderStatusSQL = `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2`
)
