package rpc

func (s *Server) handleMempoolGlyphStats(req *Request) (interface{}, *Error) {
	if s.mempool == nil {
		return nil, notFound("mempool shadow")
	}
	return s.mempool.Stats(), nil
}
