package response

// ResponseCode 业务状态码，与 HTTP 状态码分离
type ResponseCode int

// Success 请求成功
const Success ResponseCode = 100

// Response 所有接口统一的返回结构
type Response struct {
	Message string       `json:"message"`
	Code    ResponseCode `json:"code"`
	Data    any          `json:"data"`
}

func SuccessResponse(data any) Response {
	return Response{Message: "success", Code: Success, Data: data}
}

// ErrorResponse 由业务错误生成返回体，不把内部原因暴露给调用方
func ErrorResponse(err *BusinessError) Response {
	return Response{Message: err.Msg, Code: err.Code}
}
