// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

// ErrSendFailed wraps every delivery failure from the Postmark backend.
var ErrSendFailed = errors.New("mail_send_failed")

// PostmarkSender delivers letters through Postmark's transactional API.
type PostmarkSender struct {
	client       *postmark.Client
	senderEmail  string
	supportEmail string
}

// NewPostmarkSender creates the production delivery backend. Both tokens are
// required; failing here beats silently dropping mail at runtime.
func NewPostmarkSender(serverToken, accountToken, senderEmail, supportEmail string) (*PostmarkSender, error) {
	if serverToken == "" || accountToken == "" {
		return nil, errors.New("postmark tokens are required")
	}
	if senderEmail == "" {
		return nil, errors.New("sender email is required")
	}

	return &PostmarkSender{
		client:       postmark.NewClient(serverToken, accountToken),
		senderEmail:  senderEmail,
		supportEmail: supportEmail,
	}, nil
}

/*
SendEmail implements [Sender] using Postmark.

Description: Opens and HTML link clicks are tracked for analytics. Reply-To
points at the support address so member responses reach a human.

Parameters:
  - context: context.Context
  - params: SendParams

Returns:
  - error: ErrSendFailed wrapping the transport or API error
*/
func (sender *PostmarkSender) SendEmail(context context.Context, params SendParams) error {
	response, err := sender.client.SendEmail(context, postmark.Email{
		From:       sender.senderEmail,
		ReplyTo:    sender.supportEmail,
		To:         params.SendTo,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if response.ErrorCode > 0 {
		return errors.Join(ErrSendFailed,
			fmt.Errorf("postmark error: %d - %s", response.ErrorCode, response.Message))
	}
	return nil
}
