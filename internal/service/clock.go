package service

import (
	"sync"
	"time"
)

// Clock accumulates the thinking time one side has used.
type Clock struct {
	mu          sync.Mutex
	spent       time.Duration
	lastStarted time.Time // When the clock was last started
	isRunning   bool
	now         func() time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.spent += c.now().Sub(c.lastStarted)
		c.isRunning = false
	}
}

func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.spent = 0
	c.isRunning = false
}

func (c *Clock) Spent() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return c.spent + c.now().Sub(c.lastStarted)
	}
	return c.spent
}

func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}
