package http

import "net/url"

// Webhook parameters are pointers so that "present but empty" (udh is
// usually sent empty) passes `required` while a missing key fails it.

// IncomingMessageParams are the parameters of a <prefix>/im call.
type IncomingMessageParams struct {
	APIID     *string `form:"api_id" validate:"required"`
	MoMsgID   *string `form:"moMsgId" validate:"required"`
	From      *string `form:"from" validate:"required"`
	To        *string `form:"to" validate:"required"`
	Timestamp *string `form:"timestamp" validate:"required"` // "2008-08-06 09:43:50", GMT+0200
	Charset   *string `form:"charset" validate:"required"`
	UDH       *string `form:"udh" validate:"required"`
	Text      *string `form:"text" validate:"required"`
}

// StatusReportParams are the parameters of a <prefix>/status call.
type StatusReportParams struct {
	From     *string `form:"from" validate:"required"`
	To       *string `form:"to" validate:"required"`
	Status   *string `form:"status" validate:"required"`
	CliMsgID *string `form:"cliMsgId"`
	APIID    *string `form:"api_id" validate:"required"`
	MoMsgID  *string `form:"moMsgId" validate:"required"`
	Charge   *string `form:"charge" validate:"required"`
}

// webhookValues merges the form body and the query string; the query wins.
type webhookValues map[string]string

func mergeValues(form, query url.Values) webhookValues {
	v := webhookValues{}
	for k := range form {
		v[k] = form.Get(k)
	}
	for k := range query {
		v[k] = query.Get(k)
	}
	return v
}

func (v webhookValues) ptr(key string) *string {
	s, ok := v[key]
	if !ok {
		return nil
	}
	return &s
}

func newIncomingMessageParams(v webhookValues) IncomingMessageParams {
	return IncomingMessageParams{
		APIID:     v.ptr("api_id"),
		MoMsgID:   v.ptr("moMsgId"),
		From:      v.ptr("from"),
		To:        v.ptr("to"),
		Timestamp: v.ptr("timestamp"),
		Charset:   v.ptr("charset"),
		UDH:       v.ptr("udh"),
		Text:      v.ptr("text"),
	}
}

func newStatusReportParams(v webhookValues) StatusReportParams {
	return StatusReportParams{
		From:     v.ptr("from"),
		To:       v.ptr("to"),
		Status:   v.ptr("status"),
		CliMsgID: v.ptr("cliMsgId"),
		APIID:    v.ptr("api_id"),
		MoMsgID:  v.ptr("moMsgId"),
		Charge:   v.ptr("charge"),
	}
}
