package telegram

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/telegram/commands"
)

func noop(tele.Context) error { return nil }

func TestRegisterCommandAndAlias(t *testing.T) {
	reg := NewRegistry()
	err := reg.RegisterCommand("/start", commands.Command{
		Handler: noop,
		Aliases: []string{"/menu"},
	})
	if err != nil {
		t.Fatalf("RegisterCommand: %v", err)
	}

	if _, ok := reg.LookupCommand("/start"); !ok {
		t.Fatal("canonical name not found")
	}
	if _, ok := reg.LookupCommand("/menu"); !ok {
		t.Fatal("alias not found")
	}
	if _, ok := reg.LookupCommand("/MENU"); !ok {
		t.Fatal("lookup must be case insensitive")
	}
}

func TestRegisterCommandValidation(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCommand("start", commands.Command{Handler: noop}); err == nil {
		t.Fatal("missing slash must be rejected")
	}
	if err := reg.RegisterCommand("/start", commands.Command{Handler: noop}); err != nil {
		t.Fatalf("RegisterCommand: %v", err)
	}
	if err := reg.RegisterCommand("/start", commands.Command{Handler: noop}); err == nil {
		t.Fatal("duplicate registration must be rejected")
	}
}

func TestListCommandsSorted(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"/status", "/cart", "/orders"} {
		if err := reg.RegisterCommand(name, commands.Command{Handler: noop}); err != nil {
			t.Fatalf("RegisterCommand(%s): %v", name, err)
		}
	}

	list := reg.ListCommands()
	want := []string{"/cart", "/orders", "/status"}
	if len(list) != len(want) {
		t.Fatalf("expected %d commands, got %d", len(want), len(list))
	}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("list[%d] = %s, want %s", i, list[i].Name, name)
		}
	}
}

func TestCallbackRegistry(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCallback("shop_cat", noop); err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}
	if err := reg.RegisterCallback("shop_cat", noop); err == nil {
		t.Fatal("duplicate callback must be rejected")
	}
	if _, ok := reg.GetCallback("shop_cat"); !ok {
		t.Fatal("callback not found")
	}
	if _, ok := reg.GetCallback("missing"); ok {
		t.Fatal("unexpected callback hit")
	}
}
