package domain

import "sync"

// PresenceEntry 一筆在線紀錄
type PresenceEntry struct {
	UserID       string `json:"userId"`
	ConnectionID string `json:"socketId"`
	Name         string `json:"userName"`
	Email        string `json:"userEmail"`
}

// PresenceRegistry 追蹤目前在線的使用者。
// 同一個使用者重複連線時，新的連線會覆蓋舊的紀錄
type PresenceRegistry struct {
	mu      sync.RWMutex
	entries map[string]PresenceEntry // key: userID
}

// NewPresenceRegistry create a PresenceRegistry
func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		entries: make(map[string]PresenceEntry),
	}
}

// Register 登記一筆在線紀錄，重複登記以新的為準
func (p *PresenceRegistry) Register(userID, connectionID, name, email string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[userID] = PresenceEntry{
		UserID:       userID,
		ConnectionID: connectionID,
		Name:         name,
		Email:        email,
	}
}

// Unregister 移除在線紀錄，不存在時是 no-op
func (p *PresenceRegistry) Unregister(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, userID)
}

// IsOnline 查詢使用者是否在線
func (p *PresenceRegistry) IsOnline(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.entries[userID]
	return ok
}

// List 回傳目前在線名單的快照，呼叫端可以任意修改
func (p *PresenceRegistry) List() []PresenceEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	list := make([]PresenceEntry, 0, len(p.entries))
	for _, e := range p.entries {
		list = append(list, e)
	}
	return list
}
