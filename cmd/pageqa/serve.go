package main

import (
	"fmt"
	"net"
	"strconv"

	pageqahttp "github.com/fwojciec/pageqa/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := pageqahttp.NewServer()
	s.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	s.AllowedOrigins = c.CORSOrigins
	s.Logger = deps.Logger
	s.QAService = deps.QA
	s.ContentService = deps.Content

	if err := s.Open(); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr, err)
	}
	deps.Logger.Info("server started", "url", s.URL(), "origins", c.CORSOrigins)
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", s.URL())

	<-deps.Ctx.Done()

	deps.Logger.Info("server stopping")
	return s.Close()
}
