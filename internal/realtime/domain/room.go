package domain

import "sort"

// PersonalRoomPrefix 個人房間的前綴，通知類事件只會送進這裡
const PersonalRoomPrefix = "user_"

// PersonalRoomID 每個連線上來的使用者都會自動加入的房間
func PersonalRoomID(userID string) string {
	return PersonalRoomPrefix + userID
}

// ConversationRoomID 一對一聊天房的 key，參與者排序後用底線串接，
// 兩邊各自計算都會得到同一個 roomID
func ConversationRoomID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return ids[0] + "_" + ids[1]
}
