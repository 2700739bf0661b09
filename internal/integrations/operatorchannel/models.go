package operatorchannel

// sendResponse ответ messages.send: либо response, либо error
type sendResponse struct {
	Response *int64    `json:"response"`
	Error    *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}
