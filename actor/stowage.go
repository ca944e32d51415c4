// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package actor

type stowageMode int

const (
	idleMode stowageMode = iota
	stowingMode
	dispersingMode
)

// Stowage holds the messages an actor cannot receive while its mailbox is
// suspended and hands them back in the order they arrived.
//
// The mode only moves Idle -> Stowing -> Dispersing -> Idle; Reset goes back
// to Idle from anywhere. Stowage is not safe for concurrent use; the mailbox
// guards it with its own lock.
type Stowage struct {
	mode     stowageMode
	messages []*Message
	head     int
}

// NewStowage creates an idle Stowage
func NewStowage() *Stowage {
	return &Stowage{}
}

// StowingMode switches an idle stowage to stowing and reports whether it did
func (s *Stowage) StowingMode() bool {
	if s.mode != idleMode {
		return false
	}
	s.mode = stowingMode
	return true
}

// DispersingMode switches a stowing stowage to dispersing and reports whether it did
func (s *Stowage) DispersingMode() bool {
	if s.mode != stowingMode {
		return false
	}
	s.mode = dispersingMode
	return true
}

// Stow appends msg. Messages can be stowed while stowing, and while dispersing
// when the mailbox got suspended again before every stowed message left.
func (s *Stowage) Stow(msg *Message) bool {
	if s.mode == idleMode {
		return false
	}
	s.messages = append(s.messages, msg)
	return true
}

// Head pops the oldest stowed message while dispersing. Once the last message
// left it returns nil and goes back to Idle.
func (s *Stowage) Head() *Message {
	if s.mode != dispersingMode {
		return nil
	}
	if s.head >= len(s.messages) {
		s.clear()
		return nil
	}
	msg := s.messages[s.head]
	s.messages[s.head] = nil
	s.head++
	if s.head == len(s.messages) {
		s.clear()
	}
	return msg
}

// Reset drops every stowed message, goes back to Idle and returns what was dropped
func (s *Stowage) Reset() []*Message {
	var dropped []*Message
	if s.head < len(s.messages) {
		dropped = append(dropped, s.messages[s.head:]...)
	}
	s.clear()
	return dropped
}

// Len returns the number of stowed messages
func (s *Stowage) Len() int {
	return len(s.messages) - s.head
}

// IsIdle reports whether the stowage is idle
func (s *Stowage) IsIdle() bool {
	return s.mode == idleMode
}

// IsStowing reports whether the stowage accepts messages
func (s *Stowage) IsStowing() bool {
	return s.mode == stowingMode
}

// IsDispersing reports whether the stowage hands messages back
func (s *Stowage) IsDispersing() bool {
	return s.mode == dispersingMode
}

func (s *Stowage) clear() {
	s.messages = nil
	s.head = 0
	s.mode = idleMode
}
