package app

import (
	"context"
	"errors"

	"social_network_service/internal/realtime/domain"
	userdomain "social_network_service/internal/user/domain"
	userrepo "social_network_service/internal/user/repository"
)

var errUserInactive = errors.New("user not found or inactive")

// HubPublisher 把領域事件接上 websocket hub
type HubPublisher struct {
	hub *Hub
}

// NewHubPublisher create a HubPublisher
func NewHubPublisher(hub *Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

// Publish 廣播給所有在線 client
func (p *HubPublisher) Publish(event string, payload interface{}) bool {
	return p.hub.BroadcastAll(event, payload)
}

// NotifyUser 推進單一使用者的個人房間
func (p *HubPublisher) NotifyUser(userID, event string, payload interface{}) bool {
	return p.hub.SendToUser(userID, event, payload)
}

var _ domain.EventPublisher = (*HubPublisher)(nil)
var _ domain.UserNotifier = (*HubPublisher)(nil)

// repoDirectory UserDirectory 的預設實作，直接查 user repository
type repoDirectory struct {
	users userrepo.UserRepository
}

// NewUserDirectory create a UserDirectory backed by the user repository
func NewUserDirectory(users userrepo.UserRepository) UserDirectory {
	return &repoDirectory{users: users}
}

// Lookup 帳號必須存在且有效，停用中的使用者不會出現在事件裡
func (d *repoDirectory) Lookup(ctx context.Context, userID string) (domain.UserProfile, error) {
	user, err := d.users.FindByUser(ctx, &userdomain.UserQuery{UserID: &userID})
	if err != nil {
		return domain.UserProfile{}, err
	}
	if !user.IsLive() {
		return domain.UserProfile{}, errUserInactive
	}
	return domain.UserProfile{
		UserID:  user.UserID,
		Name:    user.Name,
		Email:   user.Email,
		Picture: user.Picture,
	}, nil
}
