package bdd

import (
	"context"
	"fmt"

	"social_network_service/internal/realtime/domain"

	"github.com/cucumber/godog"
)

// presence 相關步驟直接跑真的 PresenceRegistry
var presenceReg = domain.NewPresenceRegistry()

func userIsConnectedWithSocket(userID, socketID string) error {
	presenceReg.Register(userID, socketID, "name-"+userID, userID+"@example.com")
	return nil
}

func userDisconnects(userID string) error {
	presenceReg.Unregister(userID)
	return nil
}

func onlineListShouldContainUsers(count int) error {
	if got := len(presenceReg.List()); got != count {
		return fmt.Errorf("expected %d online users, but got %d", count, got)
	}
	return nil
}

func userShouldBeOnline(userID string) error {
	if !presenceReg.IsOnline(userID) {
		return fmt.Errorf("expected %s to be online", userID)
	}
	return nil
}

func userShouldBeOffline(userID string) error {
	if presenceReg.IsOnline(userID) {
		return fmt.Errorf("expected %s to be offline", userID)
	}
	return nil
}

func conversationRoomShouldMatch(a, b, c, d string) error {
	if domain.ConversationRoomID(a, b) != domain.ConversationRoomID(c, d) {
		return fmt.Errorf("room id differs for (%s,%s) and (%s,%s)", a, b, c, d)
	}
	return nil
}

// InitializePresenceScenario 註冊在線狀態相關的步驟
func InitializePresenceScenario(s *godog.ScenarioContext) {
	// 每個 scenario 用乾淨的 registry
	s.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		presenceReg = domain.NewPresenceRegistry()
		return ctx, nil
	})

	s.Step(`^"([^"]*)" is connected with socket "([^"]*)"$`, userIsConnectedWithSocket)
	s.Step(`^"([^"]*)" disconnects$`, userDisconnects)
	s.Step(`^the online list should contain (\d+) users$`, onlineListShouldContainUsers)
	s.Step(`^"([^"]*)" should be online$`, userShouldBeOnline)
	s.Step(`^"([^"]*)" should be offline$`, userShouldBeOffline)
	s.Step(`^the conversation room for "([^"]*)" and "([^"]*)" should equal the room for "([^"]*)" and "([^"]*)"$`, conversationRoomShouldMatch)
}
