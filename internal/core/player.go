package core

import "fmt"

// Player is the built-in structure bound to the player role. It holds
// playback state for one queue; the audio transport itself is supplied by
// the consuming layer.
type Player struct {
	Queue    *Queue
	Playing  bool
	Paused   bool
	Volume   int
	Position int64 // milliseconds into the current track
}

func NewPlayer() *Player {
	return &Player{
		Queue:  NewQueue(),
		Volume: 100,
	}
}

// NodeOptions are the connection coordinates of a search/playback node.
type NodeOptions struct {
	Host     string
	Port     int
	Password string
	Secure   bool
}

// Node is the built-in structure bound to the node role: a handle on one
// backend node. Connection management lives in the consuming layer.
type Node struct {
	Options NodeOptions
}

func NewNode(opts NodeOptions) *Node {
	return &Node{Options: opts}
}

// RestAddress is the base URL of the node's REST interface.
func (n *Node) RestAddress() string {
	scheme := "http"
	if n.Options.Secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, n.Options.Host, n.Options.Port)
}
