package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account keyed by email. There is no password column:
// the session service accepts any email-shaped string (see auth package).
type User struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex" json:"email"`
	DisplayName string     `json:"display_name"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Conversation represents an assistant chat session
type Conversation struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Title        string    `json:"title"`
	Model        string    `json:"model"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Messages []ChatMessage `json:"messages,omitempty" gorm:"foreignKey:ConversationID"`
}

// ChatMessage represents one turn of an assistant conversation
type ChatMessage struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"index:idx_conv_created" json:"conversation_id"`
	Role           string    `json:"role"` // user, model
	Text           string    `json:"text" gorm:"type:text"`
	CreatedAt      time.Time `gorm:"index:idx_conv_created" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// User operations

func (s *Store) GetUserByEmail(email string) (*User, error) {
	var user User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return &user, err
}

func (s *Store) UpsertUser(user *User) error {
	existing, err := s.GetUserByEmail(user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.DisplayName = user.DisplayName
		existing.LastLoginAt = user.LastLoginAt
		*user = *existing
		return s.db.Save(existing).Error
	}
	return s.db.Create(user).Error
}

// Conversation operations

func (s *Store) CreateConversation(conv *Conversation) error {
	return s.db.Create(conv).Error
}

func (s *Store) GetConversation(id string) (*Conversation, error) {
	var conv Conversation
	err := s.db.Where("id = ?", id).First(&conv).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return &conv, err
}

func (s *Store) ListConversations(limit, offset int) ([]Conversation, error) {
	var convs []Conversation
	err := s.db.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&convs).Error
	return convs, err
}

// ChatMessage operations

func (s *Store) CreateChatMessage(msg *ChatMessage) error {
	if err := s.db.Create(msg).Error; err != nil {
		return err
	}
	return s.db.Model(&Conversation{}).
		Where("id = ?", msg.ConversationID).
		UpdateColumn("message_count", gorm.Expr("message_count + 1")).Error
}

func (s *Store) GetChatMessages(conversationID string, limit, offset int) ([]ChatMessage, error) {
	var messages []ChatMessage
	err := s.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}
