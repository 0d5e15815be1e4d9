package email

import (
	"fmt"
	"strings"

	"github.com/paperpatch/poster-store/internal/model"
)

// Templates are plain string substitution over fixed HTML. Amounts are whole
// taka prefixed with the BDT sign.

const taka = "৳"

func boardLabel(withBoard bool) string {
	if withBoard {
		return "Yes"
	}
	return "No"
}

func itemRows(items []model.LineItem) string {
	var b strings.Builder
	for i, it := range items {
		fmt.Fprintf(&b, `
      <div style="background:#fffde7;padding:12px 15px;margin:15px 0;border-left:4px solid #dc143c;">
        <p><strong>Poster %d</strong> &mdash; <strong>%s%d</strong></p>
        <p>Size: %d" &times; %d"</p>
        <p>Board: %s</p>
      </div>`, i+1, taka, it.Price, it.Width, it.Height, boardLabel(it.WithBoard))
	}
	return b.String()
}

func customerConfirmationHTML(o *model.Order) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="font-family:sans-serif;max-width:650px;margin:0 auto;padding:20px;color:#1a1a1a;">
    <h1>Thank you for your order!</h1>
    <p style="background:#fff9c4;display:inline-block;padding:8px 20px;font-size:18px;"><strong>Order #%s</strong></p>
    <p>Hi %s,</p>
    <p>We've received your order and will start processing it soon. You'll receive updates as your order progresses.</p>
    <h2>Order Details</h2>
    %s
    <div style="background:#e3f2fd;padding:20px;margin:25px 0;border:2px solid #4a90e2;">
      <p>Subtotal: %s%d</p>
      <p>Shipping: %s%d</p>
      <p style="font-size:20px;"><strong>Total: %s%d</strong></p>
    </div>
    <h2>Shipping Information</h2>
    <p><strong>Name:</strong> %s<br/><strong>Phone:</strong> %s<br/><strong>Address:</strong> %s, %s</p>
    <h2>Payment Method</h2>
    <p>%s</p>
    <p style="margin-top:30px;border-top:2px dashed #4a90e2;padding-top:20px;">
      Questions? Reach us on Instagram @paperpatchbd<br/>
      Paperpatch - Handcrafted with care in Dhaka
    </p>
  </body>
</html>`,
		o.OrderNumber, o.Shipping.Name, itemRows(o.Items),
		taka, o.Subtotal(), taka, o.ShippingCost, taka, o.TotalAmount,
		o.Shipping.Name, o.Shipping.Phone, o.Shipping.Address, o.Shipping.City,
		o.PaymentMethod)
}

func adminAlertHTML(o *model.Order) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="font-family:sans-serif;max-width:650px;margin:0 auto;padding:20px;color:#1a1a1a;">
    <h1 style="background:#dc143c;color:#fff;padding:20px;text-align:center;">New Order Received! #%s</h1>
    <h2>Customer Information</h2>
    <p><strong>Name:</strong> %s<br/><strong>Email:</strong> %s<br/><strong>Phone:</strong> %s<br/>
       <strong>Address:</strong> %s, %s</p>
    <h2>Order Items</h2>
    %s
    <h2>Payment Details</h2>
    <p>Subtotal: %s%d<br/>Shipping: %s%d<br/>Payment Method: %s</p>
    <p style="background:#e3f2fd;padding:15px;font-size:20px;text-align:center;border:2px solid #4a90e2;">
      <strong>Total Amount: %s%d</strong>
    </p>
  </body>
</html>`,
		o.OrderNumber,
		o.Shipping.Name, o.Shipping.Email, o.Shipping.Phone, o.Shipping.Address, o.Shipping.City,
		itemRows(o.Items),
		taka, o.Subtotal(), taka, o.ShippingCost, o.PaymentMethod,
		taka, o.TotalAmount)
}

func statusHTML(orderNumber, name, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="font-family:sans-serif;max-width:650px;margin:0 auto;padding:20px;color:#1a1a1a;">
    <p style="background:#fff9c4;display:inline-block;padding:8px 20px;font-size:18px;"><strong>Order #%s</strong></p>
    <p>Hi %s,</p>
    <p>%s</p>
    <p style="margin-top:30px;border-top:2px dashed #4a90e2;padding-top:20px;">
      Questions? Reach us on Instagram @paperpatchbd<br/>
      Paperpatch - Handcrafted with care in Dhaka
    </p>
  </body>
</html>`, orderNumber, name, message)
}
