package email

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOrderConfirmation(t *testing.T) {
	body, err := RenderOrderConfirmation(OrderSummary{
		OrderID:    17,
		ClientName: "Nora <admin>",
		Lines: []Line{
			{Name: "Jacket", Quantity: 2, UnitPrice: decimal.RequireFromString("45.5")},
			{Name: "Socks", Quantity: 3, UnitPrice: decimal.NewFromInt(4)},
		},
	})

	require.NoError(t, err)
	assert.Contains(t, body, "#17")
	assert.Contains(t, body, "Jacket")
	assert.Contains(t, body, "91.00")
	assert.Contains(t, body, "Total: 103.00")
	assert.Contains(t, body, "Nora &lt;admin&gt;")
}

func TestRenderStatusUpdate(t *testing.T) {
	body, err := RenderStatusUpdate(StatusUpdate{OrderID: 3, ClientName: "Nora", From: "Pending", To: "Confirmed"})

	require.NoError(t, err)
	assert.Contains(t, body, "from Pending to <strong>Confirmed</strong>")
}

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func TestService_SendOrderConfirmation(t *testing.T) {
	var sent []sentMail
	s := NewService("mail.local", "2525", "shop@example.com", "", "")
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}

	err := s.SendOrderConfirmation("nora@example.com", OrderSummary{OrderID: 8, ClientName: "Nora"})

	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "mail.local:2525", sent[0].addr)
	assert.Equal(t, []string{"nora@example.com"}, sent[0].to)
	assert.True(t, strings.Contains(sent[0].msg, "Subject: Order #8 received\r\n"))
	assert.Nil(t, s.auth)
}

func TestService_SendStatusUpdate_Error(t *testing.T) {
	s := NewService("mail.local", "25", "shop@example.com", "user", "secret")
	s.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := s.SendStatusUpdate("nora@example.com", StatusUpdate{OrderID: 8, To: "Cancelled"})

	assert.ErrorContains(t, err, "connection refused")
	assert.NotNil(t, s.auth)
}
