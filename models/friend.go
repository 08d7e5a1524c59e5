package models

import "time"

// GraphField names one of the two peer sets kept on a friend graph.
type GraphField string

const (
	FriendsField         GraphField = "friends"
	PendingRequestsField GraphField = "pending_requests"
)

func (f GraphField) Valid() bool {
	return f == FriendsField || f == PendingRequestsField
}

// FriendGraph is the per-user adjacency record.
// PendingRequests holds the ids of users who asked this user and got no answer yet.
type FriendGraph struct {
	UserID          string   `bson:"_id" json:"user_id"`
	Friends         []string `bson:"friends" json:"friends"`
	PendingRequests []string `bson:"pending_requests" json:"pending_requests"`
}

func (g *FriendGraph) HasFriend(peerID string) bool {
	return contains(g.Friends, peerID)
}

func (g *FriendGraph) HasRequest(peerID string) bool {
	return contains(g.PendingRequests, peerID)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// FriendGraphRecord and FriendGraphMember are the relational shape of FriendGraph.
type FriendGraphRecord struct {
	UserID    string    `gorm:"primaryKey;size:36"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (FriendGraphRecord) TableName() string {
	return "friend_graphs"
}

type FriendGraphMember struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	UserID    string     `gorm:"size:36;uniqueIndex:friend_graph_member_idx"`
	Field     GraphField `gorm:"size:20;uniqueIndex:friend_graph_member_idx"`
	PeerID    string     `gorm:"size:36;uniqueIndex:friend_graph_member_idx"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
}

func (FriendGraphMember) TableName() string {
	return "friend_graph_members"
}
