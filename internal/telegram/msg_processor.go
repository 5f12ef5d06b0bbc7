package telegram

import (
	"errors"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vm-affekt/fbdl/internal/dialogs"
)

type MsgProcessor struct {
	apiKey        string
	debugMode     bool
	handleTimeout time.Duration

	bot       *tgbotapi.BotAPI
	container *dialogs.Container

	updates          tgbotapi.UpdatesChannel
	cancelDispatcher func()
	dispatcherDone   chan struct{}

	muLocker     sync.Mutex
	lockByUserID map[int64]*userLock
}

type userLock struct {
	mu sync.Mutex
	// refs counts handlers holding or waiting for mu; guarded by MsgProcessor.muLocker.
	refs int
}

// NewMsgProcessor creates a processor that gives every message handleTimeout to be answered.
func NewMsgProcessor(apiKey string, debugMode bool, container *dialogs.Container, handleTimeout time.Duration) *MsgProcessor {
	return &MsgProcessor{
		apiKey:        apiKey,
		debugMode:     debugMode,
		handleTimeout: handleTimeout,
		container:     container,
		lockByUserID:  make(map[int64]*userLock),
	}
}

func (p *MsgProcessor) connect() (err error) {
	if p.apiKey == "" {
		return errors.New("bot api key is not specified")
	}
	p.bot, err = tgbotapi.NewBotAPI(p.apiKey)
	if err != nil {
		return fmt.Errorf("can't create bot api: %w", err)
	}
	p.bot.Debug = p.debugMode
	return nil
}

// lockUser serializes messages of one user. The returned func releases the lock;
// the entry is dropped once nobody holds or waits for it, so idle users cost nothing.
func (p *MsgProcessor) lockUser(userID int64) (unlock func()) {
	p.muLocker.Lock()
	l, ok := p.lockByUserID[userID]
	if !ok {
		l = &userLock{}
		p.lockByUserID[userID] = l
	}
	l.refs++
	p.muLocker.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		p.muLocker.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.lockByUserID, userID)
		}
		p.muLocker.Unlock()
	}
}
