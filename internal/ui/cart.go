package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleCartKey processes keys for the cart view.
func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.snapshot.Cart.Items
	if step, ok := m.navStep(msg); ok {
		m.selectedCartItem = moveSelection(m.selectedCartItem, len(items), step)
		return m, nil
	}
	if len(items) == 0 {
		return m, nil
	}
	item := items[clampIndex(m.selectedCartItem, len(items))]

	switch {
	case key.Matches(msg, m.keys.Increment):
		m.session.SetQuantity(m.ctx, item.ID, item.Quantity+1)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Decrement):
		m.session.SetQuantity(m.ctx, item.ID, item.Quantity-1)
		m.refresh()
		if item.Quantity-1 <= 0 {
			return m.showToast(item.Name+" removed from cart", false)
		}
		return m, nil

	case key.Matches(msg, m.keys.Remove):
		if m.session.RemoveFromCart(m.ctx, item.ID) {
			m.refresh()
			return m.showToast(item.Name+" removed from cart", false)
		}

	case key.Matches(msg, m.keys.ClearCart):
		m.session.ClearCart(m.ctx)
		m.refresh()
		return m.showToast("Cart cleared", false)

	case key.Matches(msg, m.keys.Open):
		return m.openDetail(fmt.Sprintf("%d", item.ID), ViewCart)
	}
	return m, nil
}

// renderCart renders line items with quantities, subtotals and the total.
func (m Model) renderCart() string {
	styles := m.theme.Styles()
	cart := m.snapshot.Cart

	var b strings.Builder
	b.WriteString(m.sectionTitle("Cart", styles.MutedText.Render(plural(m.snapshot.CartCount, "serving"))))
	b.WriteString("\n")

	if len(cart.Items) == 0 {
		b.WriteString(styles.MutedText.Render("Your cart is empty. Press a on a drink to add it."))
		return b.String()
	}

	nameWidth := max(min(m.width-30, 40), 12)
	for i, item := range cart.Items {
		line := fmt.Sprintf("%-*s %4d × %9s = %10s",
			nameWidth, truncate(item.Name, nameWidth),
			item.Quantity,
			formatPrice(m.currency, item.UnitPrice),
			formatPrice(m.currency, item.Subtotal()))
		if i == m.selectedCartItem {
			b.WriteString(styles.Selected.Render(line))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.FaintText.Render(strings.Repeat("─", nameWidth+32)))
	b.WriteString("\n")
	total := fmt.Sprintf("%-*s %28s", nameWidth, "Total", formatPrice(m.currency, cart.Total))
	b.WriteString(styles.Text.Bold(true).Render(total))
	return b.String()
}
