package knowledge

// logTemplates returns the technical log categories in declaration order.
// Korean aliases follow the English keywords so Korean VOC text can reach
// these categories when log-first precedence is configured.
func logTemplates() []Entry {
	return []Entry{
		{
			ID:          "payment",
			Taxonomy:    TaxonomyLog,
			DisplayName: "결제",
			Keywords: []string{
				"payment", "gateway", "timeout", "transaction", "card", "pg",
				"refund", "settlement", "authorization", "decline", "balance",
				"virtual account", "3ds", "duplicate",
				"결제", "환불", "카드", "승인", "정산", "이중결제",
			},
			TypicalCauses: []string{
				"결제 게이트웨이 서버 응답 지연 또는 장애",
				"네트워크 연결 불안정으로 인한 타임아웃",
				"PG사 시스템 점검 또는 장애",
				"잘못된 카드 정보 또는 유효하지 않은 결제 수단",
				"잔액 부족 또는 한도 초과",
				"중복 결제 요청 감지",
			},
			RecommendedActions: []string{
				"PG사 서버 상태 및 점검 일정 확인",
				"네트워크 연결 상태 점검",
				"타임아웃 설정값 검토 및 조정",
				"결제 재시도 로직 점검",
				"사용자에게 결제 수단 재확인 요청",
			},
			SeverityKeywords: map[Severity][]string{
				SeverityCritical: {"settlement", "gateway", "timeout", "타임아웃"},
				SeverityHigh:     {"authorization", "decline", "duplicate", "이중결제"},
				SeverityMedium:   {"refund", "balance", "retry", "환불"},
			},
		},
		{
			ID:          "auth",
			Taxonomy:    TaxonomyLog,
			DisplayName: "인증",
			Keywords: []string{
				"jwt", "token", "login", "session", "expired", "authentication",
				"authorization", "oauth", "sso", "saml", "mfa", "otp",
				"password", "refresh", "credential", "locked",
				"로그인", "인증", "토큰", "세션", "비밀번호", "계정 잠금",
			},
			TypicalCauses: []string{
				"JWT 토큰 만료",
				"세션 타임아웃 또는 Redis 연결 문제",
				"잘못된 로그인 정보 입력",
				"계정 잠금 (로그인 실패 횟수 초과)",
				"OAuth/SSO 설정 오류",
				"MFA 인증 실패",
			},
			RecommendedActions: []string{
				"토큰 갱신 로직 점검",
				"세션 저장소(Redis) 연결 상태 확인",
				"사용자에게 비밀번호 재설정 안내",
				"계정 잠금 해제 처리",
				"SSO/OAuth 설정 검토",
			},
			SeverityKeywords: map[Severity][]string{
				SeverityCritical: {"sso", "saml", "session"},
				SeverityHigh:     {"locked", "mfa", "oauth", "계정 잠금"},
				SeverityMedium:   {"expired", "refresh", "password", "비밀번호"},
			},
		},
		{
			ID:          "database",
			Taxonomy:    TaxonomyLog,
			DisplayName: "데이터베이스",
			Keywords: []string{
				"connection", "pool", "query", "timeout", "deadlock", "transaction",
				"constraint", "replication", "lock", "disk", "tablespace",
				"hikari", "postgresql", "mysql", "slow query",
				"데이터베이스", "커넥션", "쿼리", "데드락",
			},
			TypicalCauses: []string{
				"데이터베이스 커넥션 풀 고갈",
				"느린 쿼리로 인한 타임아웃",
				"데드락 발생",
				"데이터베이스 서버 연결 끊김",
				"디스크 공간 부족",
				"리플리케이션 지연",
			},
			RecommendedActions: []string{
				"커넥션 풀 크기 조정",
				"느린 쿼리 분석 및 인덱스 최적화",
				"트랜잭션 범위 및 잠금 전략 검토",
				"디스크 공간 확보",
				"리플리케이션 상태 점검",
			},
			SeverityKeywords: map[Severity][]string{
				SeverityCritical: {"pool exhausted", "deadlock", "disk space", "connection lost", "데드락"},
				SeverityHigh:     {"timeout", "replication lag", "lock timeout"},
				SeverityMedium:   {"slow query", "constraint violation"},
			},
		},
		{
			ID:          "api",
			Taxonomy:    TaxonomyLog,
			DisplayName: "API",
			Keywords: []string{
				"rate limit", "503", "429", "upstream", "circuit breaker",
				"gateway", "timeout", "load balancer", "ssl", "certificate",
				"request", "response", "fallback",
				"서버 오류", "응답 지연", "호출 제한",
			},
			TypicalCauses: []string{
				"상위 서비스 장애 또는 응답 지연",
				"서킷 브레이커 발동",
				"API 호출 제한 초과",
				"로드 밸런서 설정 문제",
				"SSL 인증서 문제",
			},
			RecommendedActions: []string{
				"상위 서비스 상태 확인",
				"서킷 브레이커 설정 검토",
				"API 호출 빈도 조정",
				"로드 밸런서 헬스 체크 설정 확인",
				"SSL 인증서 갱신",
			},
			SeverityKeywords: map[Severity][]string{
				SeverityCritical: {"circuit breaker", "load balancer", "503"},
				SeverityHigh:     {"timeout", "upstream", "ssl"},
				SeverityMedium:   {"rate limit", "429", "fallback"},
			},
		},
		{
			ID:          "cache",
			Taxonomy:    TaxonomyLog,
			DisplayName: "캐시",
			Keywords: []string{
				"redis", "cache", "connection", "fallback", "eviction",
				"miss", "hit", "sentinel", "cluster", "memory", "expire",
				"serialization", "jedis",
				"캐시", "레디스",
			},
			TypicalCauses: []string{
				"Redis 서버 연결 실패",
				"캐시 클러스터 노드 장애",
				"메모리 부족으로 인한 캐시 제거",
				"직렬화/역직렬화 오류",
				"캐시 키 만료",
			},
			RecommendedActions: []string{
				"Redis 서버 상태 확인",
				"클러스터 노드 복구",
				"메모리 사용량 모니터링 및 증설",
				"캐시 직렬화 포맷 검토",
				"캐시 TTL 설정 검토",
			},
			SeverityKeywords: map[Severity][]string{
				SeverityCritical: {"cluster", "sentinel failover"},
				SeverityHigh:     {"connection", "memory"},
				SeverityMedium:   {"miss", "eviction", "expire"},
			},
		},
		{
			ID:          "notification",
			Taxonomy:    TaxonomyLog,
			DisplayName: "알림",
			Keywords: []string{
				"smtp", "email", "push", "queue", "retry", "fcm", "sms",
				"twilio", "bounce", "template", "slack", "webhook",
				"알림", "이메일", "문자", "푸시",
			},
			TypicalCauses: []string{
				"SMTP 서버 연결 실패",
				"푸시 알림 토큰 무효화",
				"SMS 발송 실패 (잘못된 번호)",
				"알림 큐 과부하",
				"템플릿 렌더링 오류",
			},
			RecommendedActions: []string{
				"메일 서버 연결 상태 확인",
				"FCM/APNs 토큰 유효성 검증",
				"발송 실패 건 재시도 처리",
				"알림 큐 처리량 조정",
				"템플릿 변수 검증",
			},
			SeverityKeywords: map[Severity][]string{
				SeverityCritical: {"queue full"},
				SeverityHigh:     {"smtp", "webhook"},
				SeverityMedium:   {"bounce", "template", "fcm", "sms"},
			},
		},
		{
			ID:          "file",
			Taxonomy:    TaxonomyLog,
			DisplayName: "파일",
			Keywords: []string{
				"upload", "download", "size limit", "storage", "s3",
				"virus", "scan", "thumbnail", "cdn", "quota", "corrupt",
				"파일", "업로드", "다운로드", "첨부",
			},
			TypicalCauses: []string{
				"파일 크기 제한 초과",
				"스토리지 권한 오류",
				"파일 형식 검증 실패",
				"바이러스 스캔 서비스 장애",
				"스토리지 용량 초과",
			},
			RecommendedActions: []string{
				"파일 크기 제한 설정 확인",
				"스토리지 권한 설정 검토",
				"허용 파일 형식 목록 확인",
				"바이러스 스캔 서비스 상태 점검",
				"스토리지 용량 증설",
			},
			SeverityKeywords: map[Severity][]string{
				SeverityCritical: {"s3", "storage"},
				SeverityHigh:     {"virus", "quota"},
				SeverityMedium:   {"size limit", "thumbnail", "cdn"},
			},
		},
		{
			ID:          "search",
			Taxonomy:    TaxonomyLog,
			DisplayName: "검색",
			Keywords: []string{
				"elasticsearch", "timeout", "index", "query", "shard",
				"cluster", "analyzer", "aggregation", "scroll", "reindex",
				"검색", "색인",
			},
			TypicalCauses: []string{
				"ElasticSearch 쿼리 타임아웃",
				"클러스터 상태 이상 (RED/YELLOW)",
				"인덱스 매핑 오류",
				"샤드 할당 실패",
				"메모리 부족",
			},
			RecommendedActions: []string{
				"쿼리 최적화 및 타임아웃 설정 조정",
				"클러스터 상태 확인 및 복구",
				"인덱스 매핑 검토",
				"샤드 배치 전략 조정",
				"힙 메모리 증설",
			},
			SeverityKeywords: map[Severity][]string{
				SeverityCritical: {"cluster health red", "shard"},
				SeverityHigh:     {"timeout", "analyzer", "memory"},
				SeverityMedium:   {"scroll", "aggregation", "reindex"},
			},
		},
		{
			ID:          "batch",
			Taxonomy:    TaxonomyLog,
			DisplayName: "배치",
			Keywords: []string{
				"job", "scheduler", "oom", "heap", "failed", "etl",
				"partition", "chunk", "rollback", "queue", "trigger",
				"배치", "스케줄러",
			},
			TypicalCauses: []string{
				"메모리 부족 (OutOfMemoryError)",
				"배치 작업 실행 시간 초과",
				"데이터 소스 연결 실패",
				"데이터 검증 오류",
				"트랜잭션 크기 초과",
			},
			RecommendedActions: []string{
				"JVM 힙 메모리 증설",
				"배치 처리 청크 크기 조정",
				"데이터 소스 연결 안정성 확인",
				"데이터 유효성 검증 로직 강화",
				"트랜잭션 분할 처리",
			},
			SeverityKeywords: map[Severity][]string{
				SeverityCritical: {"oom", "heap", "etl"},
				SeverityHigh:     {"rollback", "failed", "timeout"},
				SeverityMedium:   {"partition", "chunk", "queue"},
			},
		},
		{
			ID:          "security",
			Taxonomy:    TaxonomyLog,
			DisplayName: "보안",
			Keywords: []string{
				"blocked", "suspicious", "rate limit", "ddos", "attack",
				"sql injection", "xss", "csrf", "certificate", "vulnerable",
				"pii", "exposure",
				"보안", "해킹", "개인정보 노출",
			},
			TypicalCauses: []string{
				"보안 공격 시도 감지 (SQL Injection, XSS 등)",
				"비정상적인 접근 패턴",
				"DDoS 공격",
				"인증서 만료 임박",
				"민감 정보 노출",
			},
			RecommendedActions: []string{
				"공격 패턴 분석 및 차단 규칙 강화",
				"의심 IP 차단",
				"DDoS 방어 시스템 활성화",
				"SSL 인증서 갱신",
				"민감 정보 로깅 제거",
			},
			SeverityKeywords: map[Severity][]string{
				SeverityCritical: {"ddos", "sql injection", "xss", "해킹"},
				SeverityHigh:     {"blocked", "csrf", "certificate", "pii", "개인정보 노출"},
				SeverityMedium:   {"rate limit", "suspicious"},
			},
		},
	}
}
