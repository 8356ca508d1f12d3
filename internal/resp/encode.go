package resp

import "strconv"

var crlf = []byte("\r\n")

// EncodeCommand frames a command as an array of bulk strings.
func EncodeCommand(args [][]byte) []byte {
	size := 16
	for _, a := range args {
		size += len(a) + 16
	}
	return AppendCommand(make([]byte, 0, size), args)
}

// AppendCommand appends the request frame for args to dst.
//
// Every client command goes out as an array of bulk strings regardless of
// what the arguments mean to the server, so element bytes are never
// escaped: the length prefix delimits them.
func AppendCommand(dst []byte, args [][]byte) []byte {
	dst = appendHeader(dst, TypeArray, int64(len(args)))
	for _, a := range args {
		dst = appendBulk(dst, a)
	}
	return dst
}

// AppendReply appends the server-side encoding of r to dst.
func AppendReply(dst []byte, r Reply) []byte {
	switch r.Kind {
	case KindSimpleString:
		dst = append(dst, TypeSimpleString)
		dst = append(dst, r.Str...)
		return append(dst, crlf...)
	case KindError:
		dst = append(dst, TypeError)
		dst = append(dst, r.Str...)
		return append(dst, crlf...)
	case KindInteger:
		return appendHeader(dst, TypeInteger, r.Int)
	case KindBulkString:
		if r.Null {
			return appendHeader(dst, TypeBulkString, -1)
		}
		return appendBulk(dst, r.Str)
	case KindArray:
		if r.Null {
			return appendHeader(dst, TypeArray, -1)
		}
		dst = appendHeader(dst, TypeArray, int64(len(r.Elems)))
		for _, e := range r.Elems {
			dst = AppendReply(dst, e)
		}
		return dst
	default:
		return dst
	}
}

func appendHeader(dst []byte, typ byte, n int64) []byte {
	dst = append(dst, typ)
	dst = strconv.AppendInt(dst, n, 10)
	return append(dst, crlf...)
}

func appendBulk(dst []byte, b []byte) []byte {
	dst = appendHeader(dst, TypeBulkString, int64(len(b)))
	dst = append(dst, b...)
	return append(dst, crlf...)
}
