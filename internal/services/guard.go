package services

// Owned - ресурс, у которого есть владелец.
type Owned interface {
	OwnerID() int64
}

// IsOwner сообщает, принадлежит ли ресурс пользователю userID.
func IsOwner(resource Owned, userID int64) bool {
	return resource != nil && resource.OwnerID() == userID
}
