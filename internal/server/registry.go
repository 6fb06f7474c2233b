package server

// registry is the session registry: the binding between live connections and
// claimed nicknames. It is owned by the hub goroutine and therefore needs no
// locking.
type registry struct {
	nicknames map[*Client]string
}

func newRegistry() *registry {
	return &registry{nicknames: make(map[*Client]string)}
}

func (r *registry) add(c *Client) {
	r.nicknames[c] = ""
}

func (r *registry) setNickname(c *Client, nick string) {
	r.nicknames[c] = nick
}

// nickname returns the claimed nickname, or "" before JOIN.
func (r *registry) nickname(c *Client) string {
	return r.nicknames[c]
}

func (r *registry) contains(c *Client) bool {
	_, ok := r.nicknames[c]
	return ok
}

// remove drops the connection and returns the nickname it had claimed.
func (r *registry) remove(c *Client) string {
	nick := r.nicknames[c]
	delete(r.nicknames, c)
	return nick
}

// joinedCount counts connections that have completed a JOIN.
func (r *registry) joinedCount() int {
	n := 0
	for _, nick := range r.nicknames {
		if nick != "" {
			n++
		}
	}
	return n
}

func (r *registry) each(fn func(*Client)) {
	for c := range r.nicknames {
		fn(c)
	}
}
