/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package foodorder

import "github.com/tomoncle/foodorder/types"

// Step is one statement of a script. Description doubles as the table
// title for queries.
type Step struct {
	Kind        types.StepKind
	SQL         string
	Description string
}

// Command returns a step executing a mutating statement.
func Command(sql, desc string) Step {
	return Step{Kind: types.StepCommand, SQL: sql, Description: desc}
}

// Query returns a step printing the result of a read-only query.
func Query(sql, title string) Step {
	return Step{Kind: types.StepQuery, SQL: sql, Description: title}
}

// DefaultScript returns the food-ordering demo: an insert and an update,
// seven reporting queries, and a delete undoing the insert.
func DefaultScript() []Step {
	return []Step{
		Command(
			"INSERT INTO customers (name, email, phone, address) VALUES ('Alex Johnson', 'alex@example.com', '555-0101', '123 Main St');",
			"Inserting customer Alex Johnson",
		),
		Command(
			"UPDATE restaurants SET rating = 4.8 WHERE name = 'Bella Italia';",
			"Updating restaurant rating",
		),
		Query(
			"SELECT name, price, category FROM menu_items WHERE price < 15.00;",
			"Menu items under $15",
		),
		Query(
			"SELECT c.name as Customer, o.order_date, o.total_amount "+
				"FROM orders o "+
				"JOIN customers c ON o.customer_id = c.id;",
			"Orders with Customer Names",
		),
		Query(
			"SELECT r.name FROM restaurants r "+
				"LEFT JOIN orders o ON r.id = o.restaurant_id "+
				"WHERE o.id IS NULL;",
			"Restaurants with no orders",
		),
		Query(
			"SELECT r.name, COUNT(o.id) as order_count "+
				"FROM restaurants r "+
				"JOIN orders o ON r.id = o.restaurant_id "+
				"GROUP BY r.name;",
			"Number of orders per restaurant",
		),
		Query(
			"SELECT o.id as OrderID, c.name as Customer, r.name as Restaurant, o.total_amount "+
				"FROM orders o "+
				"JOIN customers c ON o.customer_id = c.id "+
				"JOIN restaurants r ON o.restaurant_id = r.id "+
				"ORDER BY o.total_amount DESC;",
			"Orders with Customer and Restaurant details",
		),
		Query(
			"SELECT r.name, AVG(o.total_amount) as avg_order_value "+
				"FROM restaurants r "+
				"JOIN orders o ON r.id = o.restaurant_id "+
				"GROUP BY r.name "+
				"HAVING AVG(o.total_amount) > 25.00;",
			"Restaurants with average order value > $25",
		),
		Query(
			"SELECT name, price FROM menu_items "+
				"WHERE restaurant_id IN (SELECT id FROM restaurants WHERE rating >= 4.5);",
			"Menu items from highly rated restaurants",
		),
		Command(
			"DELETE FROM customers WHERE name = 'Alex Johnson';",
			"Cleaning up: Deleting customer Alex Johnson",
		),
	}
}
