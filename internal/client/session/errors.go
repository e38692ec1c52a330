package session

import "errors"

// ErrIncompleteSession is returned by Login when the user or token is missing;
// a session is never established with only one of them.
var ErrIncompleteSession = errors.New("session requires both user and token")
